// Command carcassonne plays tile-laying matches on the terminal.
//
// Commands:
//  1. "play": hot-seat match on standard input and output
//  2. "simulate": seeded random matches that exercise the engine end to end
//  3. "rulesets": lists the rulesets found in the config directory
//  4. "journal": prints a compressed match journal
//
// Global flags control the ruleset directory, logging and the journal
// directory. Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/carcassonne-engine/game/config"
	"github.com/wricardo/carcassonne-engine/game/console"
	"github.com/wricardo/carcassonne-engine/game/service"
	"github.com/wricardo/carcassonne-engine/game/session"
	"github.com/wricardo/carcassonne-engine/journal"
	"github.com/wricardo/carcassonne-engine/logger"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "carcassonne"
)

// services bundles what every command needs
type services struct {
	game     service.GameService
	rulesets *config.Manager
	journal  *journal.Writer
}

// Close flushes the journal
func (s *services) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// initializeServices wires the ruleset manager, session manager and journal
// into a game service. An empty journalDir disables the journal.
func initializeServices(configDir, journalDir string) (*services, error) {
	rulesets, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create ruleset manager: %w", err)
	}

	var opts []service.Option
	s := &services{rulesets: rulesets}
	if journalDir != "" {
		s.journal = journal.NewWriter(journalDir, "matches")
		opts = append(opts, service.WithJournal(s.journal))
	}
	s.game = service.NewGameService(session.NewManager(), rulesets, opts...)
	return s, nil
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	// Handle shutdown signals so After closes the journal and log file
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second signal kills the process
		<-ctx.Done()
		stop()
	}()

	err := newApp().Run(ctx, os.Args)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		os.Exit(130)
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var svc *services

	open := func(cmd *cli.Command) (*services, error) {
		if svc != nil {
			return svc, nil
		}
		s, err := initializeServices(cmd.String("config-dir"), cmd.String("journal-dir"))
		if err != nil {
			return nil, err
		}
		svc = s
		return svc, nil
	}

	matchFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "ruleset",
				Aliases: []string{"r"},
				Usage:   "ruleset id, the default ruleset when empty",
				Sources: cli.EnvVars("CARC_RULESET"),
			},
			&cli.StringSliceFlag{
				Name:    "player",
				Aliases: []string{"p"},
				Usage:   "player name, repeat for each seat in turn order",
				Value:   []string{"alice", "bob"},
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "deck shuffle seed, random when 0",
			},
		}
	}

	return &cli.Command{
		Name:    AppName,
		Usage:   "tile-laying board game engine",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing ruleset YAML files",
				Sources: cli.EnvVars("CARC_CONFIG_DIR", "CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "journal-dir",
				Usage:   "directory for compressed match journals, disabled when empty",
				Sources: cli.EnvVars("CARC_JOURNAL_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-config",
				Usage:   "YAML file with a logging section",
				Sources: cli.EnvVars("CARC_LOG_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "DEBUG, INFO, WARN or ERROR",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "shorthand for --log-level DEBUG",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := logger.LoadConfig(cmd.String("log-config"))
			if err != nil {
				return ctx, err
			}
			if cmd.IsSet("log-level") {
				cfg.Level = cmd.String("log-level")
			}
			if cmd.Bool("debug") {
				cfg.Level = "DEBUG"
			}
			return ctx, logger.Initialize(cfg)
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			if svc != nil {
				err = svc.Close()
			}
			if closeErr := logger.Close(); err == nil {
				err = closeErr
			}
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play a hot-seat match in the terminal",
				Flags: matchFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := open(cmd)
					if err != nil {
						return err
					}
					return runPlay(ctx, s, matchRequest(cmd), cmd.Root().Reader, cmd.Root().Writer)
				},
			},
			{
				Name:  "simulate",
				Usage: "play seeded random matches and print the scores",
				Flags: append(matchFlags(),
					&cli.IntFlag{
						Name:    "games",
						Aliases: []string{"n"},
						Value:   1,
						Usage:   "number of matches; match i uses seed+i",
					},
					&cli.Float64Flag{
						Name:  "claim-chance",
						Value: 0.5,
						Usage: "probability a player tries to place a marker",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := open(cmd)
					if err != nil {
						return err
					}
					req := matchRequest(cmd)
					if req.Seed == 0 {
						req.Seed = rand.Uint64()
					}
					out := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(out, "SESSION\tSEED\tTURNS\tSCORES\tWINNERS")
					for i := 0; i < cmd.Int("games"); i++ {
						r := req
						r.Seed = req.Seed + uint64(i)
						res, err := simulate(ctx, s.game, r, cmd.Float64("claim-chance"))
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "%s\t%d\t%d\t%s\t%s\n", res.Session, res.Seed, res.Turns, res.scores(), res.winners())
					}
					return out.Flush()
				},
			},
			{
				Name:  "rulesets",
				Usage: "list available rulesets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := open(cmd)
					if err != nil {
						return err
					}
					infos, err := s.game.ListRulesets(ctx)
					if err != nil {
						return err
					}
					out := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(out, "ID\tNAME\tPLAYERS\tTILES\tDESCRIPTION")
					for _, info := range infos {
						fmt.Fprintf(out, "%s\t%s\t%d-%d\t%d\t%s\n",
							info.RulesetID, info.Name, info.MinPlayers, info.MaxPlayers, info.DeckSize, info.Description)
					}
					return out.Flush()
				},
			},
			{
				Name:      "journal",
				Usage:     "print the entries of a match journal file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "session",
						Usage: "only print entries of this session",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected one journal file, got %d", cmd.Args().Len())
					}
					records, err := journal.ReadFile(cmd.Args().First())
					if err != nil {
						return err
					}
					filter := cmd.String("session")
					for _, rec := range records {
						if filter != "" && rec.Session != filter {
							continue
						}
						fmt.Fprintf(cmd.Root().Writer, "%s %s %-8s %-8s %s\n",
							rec.Time.Format("15:04:05"), rec.Session, rec.Type, rec.Player, rec.Data)
					}
					return nil
				},
			},
		},
	}
}

func matchRequest(cmd *cli.Command) service.CreateSessionRequest {
	return service.CreateSessionRequest{
		Ruleset: cmd.String("ruleset"),
		Players: cmd.StringSlice("player"),
		Seed:    cmd.Uint64("seed"),
	}
}

// runPlay creates a session and hands it to the console
func runPlay(ctx context.Context, s *services, req service.CreateSessionRequest, in io.Reader, out io.Writer) error {
	info, err := s.game.CreateSession(ctx, req)
	if err != nil {
		return err
	}

	rules := s.rulesets.GetDefault()
	if req.Ruleset != "" {
		if rules, err = s.rulesets.LoadRuleset(req.Ruleset); err != nil {
			return err
		}
	}
	tiles, err := rules.Templates()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s v%s: %s, session %s, seed %d\n", AppName, Version, rules.Name, info.ID, info.Seed)
	return console.New(s.game, tiles, in, out).Play(ctx, info.ID)
}
