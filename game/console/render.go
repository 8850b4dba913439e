// Package console draws the board as text and runs a hot-seat match over
// any reader and writer.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/carcassonne-engine/game/engine"
)

// Each tile is drawn as a 3x3 block:
//
//	. N .
//	W c E
//	. S .
//
// Edge characters:
//
//	#    city
//	| =  road
//	.    field
//
// The center marks a monastery (M) or a shield (*), else any connected segment.
const cellWidth = 3

// Render writes the board with North at the top. Empty cells are blank.
func Render(w io.Writer, g *engine.Grid) error {
	lo, hi, ok := g.Bounds()
	if !ok {
		_, err := fmt.Fprintln(w, "(empty board)")
		return err
	}

	var b strings.Builder
	b.WriteString("      ")
	for x := lo.X; x <= hi.X; x++ {
		fmt.Fprintf(&b, "%*d ", cellWidth, x)
	}
	b.WriteByte('\n')

	for y := hi.Y; y >= lo.Y; y-- {
		for line := 0; line < cellWidth; line++ {
			if line == 1 {
				fmt.Fprintf(&b, "%4d  ", y)
			} else {
				b.WriteString("      ")
			}
			for x := lo.X; x <= hi.X; x++ {
				b.WriteString(tileLine(g, engine.Coordinate{X: x, Y: y}, line))
				b.WriteByte(' ')
			}
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// tileLine returns one of the three text lines of the cell at c
func tileLine(g *engine.Grid, c engine.Coordinate, line int) string {
	p, ok := g.Get(c)
	if !ok {
		return strings.Repeat(" ", cellWidth)
	}
	edge := func(e engine.Edge) byte {
		return edgeChar(p.EdgeAt(e), e)
	}
	switch line {
	case 0:
		return string([]byte{'.', edge(engine.North), '.'})
	case 1:
		return string([]byte{edge(engine.West), centerChar(p.Tile), edge(engine.East)})
	default:
		return string([]byte{'.', edge(engine.South), '.'})
	}
}

func edgeChar(k engine.FeatureKind, e engine.Edge) byte {
	switch k {
	case engine.City:
		return '#'
	case engine.Road:
		if e == engine.North || e == engine.South {
			return '|'
		}
		return '='
	default:
		return '.'
	}
}

func centerChar(t *engine.Tile) byte {
	switch {
	case t.HasMonastery():
		return 'M'
	case t.HasShield():
		return '*'
	}
	for _, seg := range t.Segments() {
		if len(seg.Edges) < 2 {
			continue
		}
		switch seg.Kind {
		case engine.City:
			return '#'
		case engine.Road:
			return '+'
		}
	}
	return '.'
}

// DescribeTile is a one-line summary of a tile in its unrotated orientation
func DescribeTile(t *engine.Tile) string {
	var b strings.Builder
	b.WriteString(t.ID())
	b.WriteString(" [")
	for i, e := range engine.Edges {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%c:%s", strings.ToUpper(e.String())[0], t.Edge(e))
	}
	b.WriteByte(']')
	if t.HasMonastery() {
		b.WriteString(" monastery")
	}
	if t.HasShield() {
		b.WriteString(" shield")
	}
	return b.String()
}
