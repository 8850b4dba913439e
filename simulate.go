package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wricardo/carcassonne-engine/game/engine"
	"github.com/wricardo/carcassonne-engine/game/service"
	"github.com/wricardo/carcassonne-engine/game/turn"
	"github.com/wricardo/carcassonne-engine/logger"
)

// simResult summarises one simulated match
type simResult struct {
	Session string
	Seed    uint64
	Turns   int
	State   *turn.State
}

func (r *simResult) scores() string {
	parts := make([]string, 0, len(r.State.Players))
	for _, p := range r.State.Players {
		parts = append(parts, fmt.Sprintf("%s=%d", p.ID, p.Score))
	}
	return strings.Join(parts, " ")
}

func (r *simResult) winners() string {
	names := make([]string, 0, len(r.State.Winners))
	for _, w := range r.State.Winners {
		names = append(names, string(w))
	}
	return strings.Join(names, ",")
}

// simulate plays a whole match with random legal moves. Move choices come
// from a generator seeded with the deck seed, so a seed replays exactly.
func simulate(ctx context.Context, svc service.GameService, req service.CreateSessionRequest, claimChance float64) (*simResult, error) {
	info, err := svc.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(info.Seed, 0x636172636173736f))
	res := &simResult{Session: info.ID, Seed: info.Seed}

	for {
		draw, err := svc.Draw(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		if draw.GameOver {
			res.State = draw.State
			break
		}

		p := draw.Placements[rng.IntN(len(draw.Placements))]
		placed, err := svc.PlaceTile(ctx, info.ID, p.At, p.Rotation)
		if err != nil {
			return nil, fmt.Errorf("legal placement %v rejected: %w", p, err)
		}
		if len(placed.Features) > 0 && rng.Float64() < claimChance {
			tryClaim(ctx, svc, info.ID, rng)
		}

		done, err := svc.EndTurn(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		res.Turns++
		if done.GameOver {
			res.State = done.State
			break
		}
	}

	logger.Debug("simulation finished", "session", res.Session, "seed", res.Seed, "turns", res.Turns)
	return res, nil
}

// tryClaim claims the first side, in random order, that accepts a marker
func tryClaim(ctx context.Context, svc service.GameService, sessionID string, rng *rand.Rand) {
	for _, i := range rng.Perm(5) {
		side := engine.Side(i)
		if _, err := svc.ClaimMarker(ctx, sessionID, side); err == nil {
			return
		}
	}
}
