// Package grade is the bet-resolution engine: given an immutable game
// snapshot and a declarative bet, it decides whether enough of the
// contest has elapsed to grade the bet, extracts the stats involved and
// computes a settlement outcome with a full audit of the values used.
//
// The engine is pure and synchronous. It performs no I/O, retains no
// state between calls and is safe for concurrent use.
package grade

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddslab/gradebook/pkg/sport"
)

// SubjectKind distinguishes team from player subjects.
type SubjectKind string

const (
	SubjectTeam   SubjectKind = "TEAM"
	SubjectPlayer SubjectKind = "PLAYER"
)

// Participant names one (subject, metric, window) triple a bet is over.
type Participant struct {
	Kind      SubjectKind  `json:"kind"`
	SubjectID string       `json:"subject_id"`
	Metric    string       `json:"metric"`
	Window    sport.Window `json:"window"`
}

func (p Participant) String() string {
	return fmt.Sprintf("%s %s %s/%s", p.Kind, p.SubjectID, p.Metric, p.Window)
}

// CompareOp is a Comparison bet operator.
type CompareOp string

const (
	// OpGreaterThan grades a post-spread tie as a push.
	OpGreaterThan CompareOp = "greater_than"
	// OpAtLeast grades a tie as a loss. The asymmetry with
	// OpGreaterThan is inherited behavior.
	// TODO: confirm at-least tie handling with product; ties grade as
	// losses today while greater_than pushes.
	OpAtLeast CompareOp = "at_least"
)

// ThresholdDir is an over/under direction.
type ThresholdDir string

const (
	DirOver  ThresholdDir = "over"
	DirUnder ThresholdDir = "under"
)

// EventType names a discrete multi-stat event bet.
type EventType string

const (
	EventDoubleDouble EventType = "double_double"
	EventTripleDouble EventType = "triple_double"
)

// Spread is a fixed handicap applied to the first participant of a
// Comparison before comparing. Sign "+" adds, "-" subtracts.
type Spread struct {
	Sign   string          `json:"sign"`
	Points decimal.Decimal `json:"points"`
}

// Apply returns the value adjusted by the spread.
func (s Spread) Apply(v decimal.Decimal) decimal.Decimal {
	if s.Sign == "-" {
		return v.Sub(s.Points)
	}
	return v.Add(s.Points)
}

func (s Spread) String() string {
	sign := s.Sign
	if sign == "" {
		sign = "+"
	}
	return sign + s.Points.String()
}

// Terms is the closed union of supported bet shapes. The resolver
// dispatches on the concrete type; anything outside the union surfaces
// as UnsupportedError.
type Terms interface {
	betTerms()
}

// Comparison pits two participants against each other, optionally with
// a spread on the left one.
type Comparison struct {
	Left   Participant `json:"left"`
	Right  Participant `json:"right"`
	Op     CompareOp   `json:"op"`
	Spread *Spread     `json:"spread,omitempty"`
}

func (Comparison) betTerms() {}

// Threshold grades one participant's value against a fixed line.
type Threshold struct {
	Subject Participant     `json:"subject"`
	Dir     ThresholdDir    `json:"dir"`
	Line    decimal.Decimal `json:"line"`
}

func (Threshold) betTerms() {}

// EventBet grades a named discrete event (double-double etc.) for one
// subject over a window. The participant's metric is implied by the
// event type.
type EventBet struct {
	Subject Participant `json:"subject"`
	Event   EventType   `json:"event"`
}

func (EventBet) betTerms() {}

// Bet is one gradeable bet.
type Bet struct {
	ID       uuid.UUID
	SportKey string
	Terms    Terms
}

// betEnvelope is the wire form of a Bet; the kind tag selects which
// terms field is populated.
type betEnvelope struct {
	ID         uuid.UUID   `json:"id"`
	SportKey   string      `json:"sport_key"`
	Kind       string      `json:"kind"`
	Comparison *Comparison `json:"comparison,omitempty"`
	Threshold  *Threshold  `json:"threshold,omitempty"`
	Event      *EventBet   `json:"event,omitempty"`
}

const (
	kindComparison = "comparison"
	kindThreshold  = "threshold"
	kindEvent      = "event"
)

// MarshalJSON encodes the bet as a tagged envelope.
func (b Bet) MarshalJSON() ([]byte, error) {
	env := betEnvelope{ID: b.ID, SportKey: b.SportKey}
	switch t := b.Terms.(type) {
	case Comparison:
		env.Kind, env.Comparison = kindComparison, &t
	case *Comparison:
		env.Kind, env.Comparison = kindComparison, t
	case Threshold:
		env.Kind, env.Threshold = kindThreshold, &t
	case *Threshold:
		env.Kind, env.Threshold = kindThreshold, t
	case EventBet:
		env.Kind, env.Event = kindEvent, &t
	case *EventBet:
		env.Kind, env.Event = kindEvent, t
	default:
		return nil, fmt.Errorf("marshal bet %s: unsupported terms %T", b.ID, b.Terms)
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes the tagged envelope form.
func (b *Bet) UnmarshalJSON(data []byte) error {
	var env betEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	b.ID = env.ID
	b.SportKey = env.SportKey
	switch env.Kind {
	case kindComparison:
		if env.Comparison == nil {
			return fmt.Errorf("unmarshal bet %s: missing comparison terms", env.ID)
		}
		b.Terms = *env.Comparison
	case kindThreshold:
		if env.Threshold == nil {
			return fmt.Errorf("unmarshal bet %s: missing threshold terms", env.ID)
		}
		b.Terms = *env.Threshold
	case kindEvent:
		if env.Event == nil {
			return fmt.Errorf("unmarshal bet %s: missing event terms", env.ID)
		}
		b.Terms = *env.Event
	default:
		return fmt.Errorf("unmarshal bet %s: unknown kind %q", env.ID, env.Kind)
	}
	return nil
}
