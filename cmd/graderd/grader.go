package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oddslab/gradebook/pkg/grade"
	"github.com/oddslab/gradebook/pkg/metrics"
	"github.com/oddslab/gradebook/pkg/provider/espn"
	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/store"
	"github.com/oddslab/gradebook/pkg/stream"
)

// Grader drives the periodic settlement pass: find pending bets, fetch
// a snapshot per game, grade, persist, broadcast.
type Grader struct {
	log      zerolog.Logger
	interval time.Duration

	engine   *grade.Engine
	db       *store.Postgres
	cache    *store.SnapshotCache
	provider *espn.Client
	hub      *stream.Hub
	metrics  *metrics.GraderMetrics
}

// NewGrader wires a grader from its collaborators.
func NewGrader(
	log zerolog.Logger,
	interval time.Duration,
	engine *grade.Engine,
	db *store.Postgres,
	cache *store.SnapshotCache,
	provider *espn.Client,
	hub *stream.Hub,
	m *metrics.GraderMetrics,
) *Grader {
	return &Grader{
		log:      log.With().Str("component", "grader").Logger(),
		interval: interval,
		engine:   engine,
		db:       db,
		cache:    cache,
		provider: provider,
		hub:      hub,
		metrics:  m,
	}
}

// Run polls until the context is cancelled. The first pass runs
// immediately.
func (g *Grader) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	if err := g.pass(ctx); err != nil {
		g.log.Error().Err(err).Msg("settlement pass failed")
	}

	for {
		select {
		case <-ticker.C:
			if err := g.pass(ctx); err != nil {
				g.log.Error().Err(err).Msg("settlement pass failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// pass grades every pending bet whose game data allows it.
func (g *Grader) pass(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in settlement pass: %v", r)
		}
	}()

	pending, err := g.db.PendingBets(ctx)
	if err != nil {
		return fmt.Errorf("load pending bets: %w", err)
	}
	g.metrics.PendingBets.Set(float64(len(pending)))
	if len(pending) == 0 {
		return nil
	}

	// Group by game so each snapshot is fetched once per pass.
	byGame := make(map[string][]store.PendingBet)
	for _, pb := range pending {
		byGame[pb.GameID] = append(byGame[pb.GameID], pb)
	}
	g.log.Info().Int("bets", len(pending)).Int("games", len(byGame)).Msg("settlement pass")

	for gameID, bets := range byGame {
		snap, err := g.snapshotFor(ctx, gameID, bets[0].Bet.SportKey)
		if err != nil {
			g.log.Warn().Err(err).Str("game_id", gameID).Msg("snapshot unavailable, deferring")
			continue
		}
		for _, pb := range bets {
			g.gradeOne(ctx, &pb.Bet, snap)
		}
	}
	return nil
}

// snapshotFor returns a snapshot for the game, preferring the cache.
func (g *Grader) snapshotFor(ctx context.Context, gameID, sportKey string) (*snapshot.Game, error) {
	if snap, err := g.cache.Get(ctx, gameID); err != nil {
		g.log.Warn().Err(err).Str("game_id", gameID).Msg("snapshot cache read failed")
	} else if snap != nil {
		g.metrics.SnapshotFetches.WithLabelValues("cache", "hit").Inc()
		return snap, nil
	}
	g.metrics.SnapshotFetches.WithLabelValues("cache", "miss").Inc()

	path, ok := espn.SportPath(sportKey)
	if !ok {
		g.metrics.SnapshotFetches.WithLabelValues("provider", "error").Inc()
		return nil, fmt.Errorf("no provider path for sport %s", sportKey)
	}
	doc, err := g.provider.FetchGameSummary(ctx, path, gameID)
	if err != nil {
		g.metrics.SnapshotFetches.WithLabelValues("provider", "error").Inc()
		return nil, err
	}
	snap, err := espn.BuildGame(sportKey, doc)
	if err != nil {
		g.metrics.SnapshotFetches.WithLabelValues("provider", "error").Inc()
		return nil, err
	}
	g.metrics.SnapshotFetches.WithLabelValues("provider", "ok").Inc()

	if err := g.cache.Put(ctx, snap); err != nil {
		g.log.Warn().Err(err).Str("game_id", gameID).Msg("snapshot cache write failed")
	}
	return snap, nil
}

// gradeOne resolves a single bet and records the result. Not-ready bets
// stay pending for the next pass.
func (g *Grader) gradeOne(ctx context.Context, bet *grade.Bet, snap *snapshot.Game) {
	start := time.Now()
	res, err := g.engine.Resolve(bet, snap)
	g.metrics.ObserveResolve(bet.SportKey, res, err, time.Since(start))

	log := g.log.With().
		Stringer("bet_id", bet.ID).
		Str("sport", bet.SportKey).
		Str("game_id", snap.GameID).
		Logger()

	switch {
	case grade.IsNotReady(err):
		log.Debug().Err(err).Msg("bet not ready")
		return
	case err != nil:
		log.Error().Err(err).Msg("grading failed")
		return
	}

	if err := g.db.SaveResolution(ctx, res); err != nil {
		log.Error().Err(err).Msg("persist resolution failed")
		return
	}
	g.hub.BroadcastResolution(res)
	log.Info().Str("outcome", string(res.Outcome)).Msg("bet settled")
}
