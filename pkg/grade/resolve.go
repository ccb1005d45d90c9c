package grade

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

// Resolution is the settlement record for one graded bet. Constructed
// fresh per call, fully populated or not at all.
type Resolution struct {
	BetID    uuid.UUID `json:"bet_id"`
	SportKey string    `json:"sport_key"`
	GameID   string    `json:"game_id"`

	Outcome Outcome      `json:"outcome"`
	Window  sport.Window `json:"window"`

	// EventTime orders downstream settlement: the wall clock of the
	// last event inside the resolved window when available, else the
	// snapshot's completion time, else the grading time as a last
	// resort.
	EventTime  time.Time `json:"event_time"`
	ResolvedAt time.Time `json:"resolved_at"`

	Audit Audit `json:"audit"`
}

// ResolveBet is the single synchronous entry point: grade one bet
// against one snapshot under one sport profile.
//
// Error taxonomy: *NotReadyError means retry once more of the contest
// has elapsed; *UnsupportedError marks an unimplemented bet shape;
// *ComputationError wraps anything unexpected. Data problems (a stat
// that cannot be extracted) are not errors: they grade as OutcomeVoid.
func ResolveBet(bet *Bet, snap *snapshot.Game, profile *sport.Profile) (*Resolution, error) {
	return resolveAt(bet, snap, profile, time.Now)
}

func resolveAt(bet *Bet, snap *snapshot.Game, profile *sport.Profile, now func() time.Time) (res *Resolution, err error) {
	if bet == nil || snap == nil || profile == nil {
		return nil, &ComputationError{Err: fmt.Errorf("nil input: bet=%v snap=%v profile=%v", bet != nil, snap != nil, profile != nil)}
	}
	if bet.SportKey != "" && bet.SportKey != profile.SportKey {
		return nil, &ComputationError{BetID: bet.ID, SportKey: bet.SportKey,
			Err: fmt.Errorf("profile mismatch: bet is %s, profile is %s", bet.SportKey, profile.SportKey)}
	}

	// Malformed configuration must not take the grading loop down with
	// it; surface panics as computation errors with bet context.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ComputationError{BetID: bet.ID, SportKey: profile.SportKey, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	windows, err := termWindows(bet.Terms)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if c := CheckComplete(profile, w, snap); !c.Complete {
			return nil, &NotReadyError{Reason: c.Reason}
		}
	}

	// A window the contest never reached (overtime in a game decided in
	// regulation) voids outright instead of grading an empty 0-0 stretch.
	for _, w := range windows {
		if !windowOccurred(profile, w, snap) {
			resolvedAt := now()
			return &Resolution{
				BetID:      bet.ID,
				SportKey:   profile.SportKey,
				GameID:     snap.GameID,
				Outcome:    OutcomeVoid,
				Window:     w,
				EventTime:  eventTime(profile, w, snap, resolvedAt),
				ResolvedAt: resolvedAt,
				Audit:      Audit{Note: fmt.Sprintf("window %s never occurred", w)},
			}, nil
		}
	}

	x := &extractor{profile: profile, snap: snap}
	outcome, window, audit, err := resolveOutcome(bet.Terms, x)
	if err != nil {
		if IsUnsupported(err) {
			return nil, err
		}
		return nil, &ComputationError{BetID: bet.ID, SportKey: profile.SportKey, Err: err}
	}

	resolvedAt := now()
	return &Resolution{
		BetID:      bet.ID,
		SportKey:   profile.SportKey,
		GameID:     snap.GameID,
		Outcome:    outcome,
		Window:     window,
		EventTime:  eventTime(profile, window, snap, resolvedAt),
		ResolvedAt: resolvedAt,
		Audit:      audit,
	}, nil
}

// termWindows lists the windows a bet's completeness gate must clear.
func termWindows(terms Terms) ([]sport.Window, error) {
	switch t := terms.(type) {
	case Comparison:
		if t.Left.Window == t.Right.Window {
			return []sport.Window{t.Left.Window}, nil
		}
		return []sport.Window{t.Left.Window, t.Right.Window}, nil
	case Threshold:
		return []sport.Window{t.Subject.Window}, nil
	case EventBet:
		return []sport.Window{t.Subject.Window}, nil
	default:
		return nil, &UnsupportedError{Reason: fmt.Sprintf("bet shape %T", terms)}
	}
}

// eventTime picks the timestamp that orders downstream settlement.
func eventTime(profile *sport.Profile, window sport.Window, snap *snapshot.Game, fallback time.Time) time.Time {
	if periods, err := ResolvePeriods(profile, window, snap); err == nil {
		if ts, ok := snap.LastEventIn(periods); ok {
			return ts
		}
	}
	if !snap.CompletedAt.IsZero() {
		return snap.CompletedAt
	}
	return fallback
}

// Engine binds the pure resolver to a profile registry and a clock.
// The zero-dependency ResolveBet remains usable without it.
type Engine struct {
	registry *sport.Registry
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for last-resort timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over a profile registry.
func NewEngine(registry *sport.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve looks up the bet's sport profile and grades the bet.
func (e *Engine) Resolve(bet *Bet, snap *snapshot.Game) (*Resolution, error) {
	if bet == nil {
		return nil, &ComputationError{Err: fmt.Errorf("nil bet")}
	}
	profile, err := e.registry.Get(bet.SportKey)
	if err != nil {
		return nil, &ComputationError{BetID: bet.ID, SportKey: bet.SportKey, Err: err}
	}
	return resolveAt(bet, snap, profile, e.now)
}
