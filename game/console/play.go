package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/service"
	"github.com/wricardo/carcassonne-engine/game/turn"
)

// ErrInputClosed is returned when input ends mid-match
var ErrInputClosed = errors.New("input closed")

var errQuit = errors.New("quit")

// Console plays a match turn by turn, prompting the current player
type Console struct {
	svc   service.GameService
	tiles map[string]*engine.Tile
	in    *bufio.Scanner
	out   io.Writer

	start sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// New creates a console. tiles are the ruleset templates keyed by id and are
// used to draw the board.
func New(svc service.GameService, tiles map[string]*engine.Tile, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc:   svc,
		tiles: tiles,
		in:    bufio.NewScanner(in),
		out:   out,
		lines: make(chan inputLine),
	}
}

// Play runs the session until the match is over or a player quits. Quitting
// ends the match with terminal scoring. Cancelling ctx abandons the match
// even while a prompt waits for input.
func (c *Console) Play(ctx context.Context, sessionID string) error {
	for {
		st, err := c.svc.GetState(ctx, sessionID)
		if err != nil {
			return err
		}
		if st.Phase == turn.PhaseOver {
			c.printFinal(st)
			return nil
		}

		over, err := c.turn(ctx, sessionID)
		if errors.Is(err, errQuit) {
			res, err := c.svc.Finish(ctx, sessionID)
			if err != nil {
				return err
			}
			c.printEvents(res.ScoreEvents)
			c.printFinal(res.State)
			return nil
		}
		if err != nil {
			return err
		}
		if over {
			return nil
		}
	}
}

// turn plays one draw, place, claim cycle and reports whether the match ended
func (c *Console) turn(ctx context.Context, sessionID string) (bool, error) {
	draw, err := c.svc.Draw(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, id := range draw.Discarded {
		fmt.Fprintf(c.out, "%s fits nowhere and is discarded\n", id)
	}
	if draw.GameOver {
		fmt.Fprintln(c.out, "The deck is empty.")
		c.printEvents(draw.Final)
		c.printFinal(draw.State)
		return true, nil
	}

	player := draw.State.Current
	fmt.Fprintln(c.out)
	if err := c.board(draw.State); err != nil {
		return false, err
	}
	tile := c.tiles[draw.Tile.ID]
	fmt.Fprintf(c.out, "%s draws %s, %d tiles left\n", player, describe(tile, draw.Tile.ID), draw.State.Remaining)

	placed, err := c.place(ctx, sessionID, draw)
	if err != nil {
		return false, err
	}
	c.printEvents(placed.ScoreEvents)

	if err := c.claim(ctx, sessionID, placed); err != nil {
		return false, err
	}

	res, err := c.svc.EndTurn(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if res.GameOver {
		fmt.Fprintln(c.out, "The last tile has been played.")
		c.printEvents(res.ScoreEvents)
		c.printFinal(res.State)
		return true, nil
	}
	return false, nil
}

func (c *Console) place(ctx context.Context, sessionID string, draw *service.DrawResult) (*service.PlaceResult, error) {
	for {
		line, err := c.prompt(ctx, "place x y rotation (hint, board, quit)> ")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "quit", "q":
			return nil, errQuit
		case "hint", "?":
			c.printPlacements(draw.Placements)
			continue
		case "board":
			st, err := c.svc.GetState(ctx, sessionID)
			if err != nil {
				return nil, err
			}
			if err := c.board(st); err != nil {
				return nil, err
			}
			continue
		}

		at, r, err := parsePlacement(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		res, err := c.svc.PlaceTile(ctx, sessionID, at, r)
		if err != nil {
			fmt.Fprintf(c.out, "Cannot place there: %v\n", err)
			continue
		}
		return res, nil
	}
}

func (c *Console) claim(ctx context.Context, sessionID string, placed *service.PlaceResult) error {
	if len(placed.Features) == 0 {
		return nil
	}
	st := placed.State
	for _, p := range st.Players {
		if p.ID == st.Current && p.Markers == 0 {
			fmt.Fprintln(c.out, "No markers left.")
			return nil
		}
	}

	for {
		line, err := c.prompt(ctx, "marker side n/e/s/w/c (blank to skip)> ")
		if err != nil {
			return err
		}
		switch strings.ToLower(line) {
		case "", "skip", "no", "n/a":
			return nil
		case "quit", "q":
			return errQuit
		}

		side, err := engine.ParseSide(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		res, err := c.svc.ClaimMarker(ctx, sessionID, side)
		if err != nil {
			fmt.Fprintf(c.out, "Cannot claim: %v\n", err)
			continue
		}
		fmt.Fprintf(c.out, "%s claims a %s of %d tiles\n", st.Current, res.Feature.Kind, res.Feature.Tiles)
		return nil
	}
}

func (c *Console) prompt(ctx context.Context, text string) (string, error) {
	c.start.Do(func() { go c.readLines() })
	fmt.Fprint(c.out, text)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// readLines feeds input to prompt so a blocked read never blocks cancellation
func (c *Console) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- inputLine{text: c.in.Text()}
	}
	if err := c.in.Err(); err != nil {
		c.lines <- inputLine{err: err}
	}
}

func (c *Console) board(st *turn.State) error {
	g, err := BoardFromState(st, c.tiles)
	if err != nil {
		return err
	}
	return Render(c.out, g)
}

func (c *Console) printPlacements(ps []engine.Placement) {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, fmt.Sprintf("%d %d %d", p.At.X, p.At.Y, int(p.Rotation)))
	}
	fmt.Fprintf(c.out, "Legal: %s\n", strings.Join(parts, " | "))
}

func (c *Console) printEvents(events []engine.ScoreEvent) {
	for _, ev := range events {
		fmt.Fprintf(c.out, "%s scores %d for a %s of %d tiles\n", ev.Player, ev.Points, ev.Kind, ev.Tiles)
	}
}

func (c *Console) printFinal(st *turn.State) {
	fmt.Fprintln(c.out, "Final scores:")
	for _, p := range st.Players {
		fmt.Fprintf(c.out, "  %-12s %3d\n", p.ID, p.Score)
	}
	names := make([]string, 0, len(st.Winners))
	for _, w := range st.Winners {
		names = append(names, string(w))
	}
	if len(names) == 1 {
		fmt.Fprintf(c.out, "Winner: %s\n", names[0])
	} else {
		fmt.Fprintf(c.out, "Tie: %s\n", strings.Join(names, ", "))
	}
}

// parsePlacement reads "x y rotation"
func parsePlacement(line string) (engine.Coordinate, engine.Rotation, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return engine.Coordinate{}, 0, fmt.Errorf("enter three values: x y rotation")
	}
	var n [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return engine.Coordinate{}, 0, fmt.Errorf("%q is not an integer", f)
		}
		n[i] = v
	}
	r := engine.Rotation(n[2])
	if !r.Valid() {
		return engine.Coordinate{}, 0, fmt.Errorf("rotation must be 0, 1, 2 or 3")
	}
	return engine.Coordinate{X: n[0], Y: n[1]}, r, nil
}

// BoardFromState rebuilds a grid from a snapshot so it can be rendered
func BoardFromState(st *turn.State, tiles map[string]*engine.Tile) (*engine.Grid, error) {
	g := engine.NewGrid()
	for i, ts := range st.Tiles {
		t, ok := tiles[ts.ID]
		if !ok {
			return nil, fmt.Errorf("unknown tile %q at %s", ts.ID, ts.At)
		}
		if g.Occupied(ts.At) {
			return nil, fmt.Errorf("two tiles at %s", ts.At)
		}
		g.Put(&engine.PlacedTile{Tile: t, Rotation: ts.Rotation, At: ts.At, Index: i, Player: ts.Player})
	}
	return g, nil
}

func describe(t *engine.Tile, id string) string {
	if t == nil {
		return id
	}
	return DescribeTile(t)
}
