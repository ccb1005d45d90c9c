package sport

// ExtractionRule describes how one metric is read out of a snapshot.
// The two strategies are independent: summary serves full-game windows,
// events serves everything narrower. A metric may configure either or
// both; asking the engine for a window whose strategy is missing is a
// configuration error, not a data error.
type ExtractionRule struct {
	Summary *SummaryRule `mapstructure:"summary"`
	Events  *EventRule   `mapstructure:"events"`
}

// CompoundSide selects one side of a compound "made-attempted" summary
// value such as "49-88".
type CompoundSide string

const (
	CompoundNone   CompoundSide = ""
	CompoundFirst  CompoundSide = "first"
	CompoundSecond CompoundSide = "second"
)

// SpecialKind names a registered special-case summary strategy.
type SpecialKind string

const (
	SpecialNone SpecialKind = ""
	// SpecialFinalScore reads the team's final score, falling back to
	// the sum of its per-period scores.
	SpecialFinalScore SpecialKind = "final_score"
	// SpecialTeamSum sums SumField across every qualifying player row
	// of the subject team.
	SpecialTeamSum SpecialKind = "team_sum"
)

// SummaryRule reads a value from the whole-game summary tables.
type SummaryRule struct {
	// Field is the summary column to read (team or player row,
	// depending on the bet subject).
	Field string `mapstructure:"field"`
	// Group restricts player-row lookup to one summary sub-table,
	// e.g. "goalies". Empty matches any group.
	Group string `mapstructure:"group"`
	// Compound splits an "A-B" value and keeps one side.
	Compound CompoundSide `mapstructure:"compound"`
	// Special replaces the plain field read with a registered
	// special-case strategy.
	Special SpecialKind `mapstructure:"special"`
	// SumField is the per-player field summed by SpecialTeamSum.
	SumField string `mapstructure:"sum_field"`
	// DerivedFrom lists metrics whose sum stands in for this one when
	// the field itself yields nothing (e.g. hockey points =
	// goals + assists). Listed metrics must not themselves be derived.
	DerivedFrom []string `mapstructure:"derived_from"`
}

// PredicateOp is an event-filter comparison operator.
type PredicateOp string

const (
	OpEquals   PredicateOp = "eq"
	OpContains PredicateOp = "contains"
	OpPrefix   PredicateOp = "prefix"
	OpGT       PredicateOp = "gt"
	OpGTE      PredicateOp = "gte"
	OpLT       PredicateOp = "lt"
	OpLTE      PredicateOp = "lte"
)

// EventField names the event attribute a predicate inspects. Predicates
// on FieldTag test tag membership; numeric operators apply to FieldValue.
type EventField string

const (
	FieldType  EventField = "type"
	FieldTag   EventField = "tag"
	FieldTeam  EventField = "team"
	FieldValue EventField = "value"
)

// EventPredicate is one filter over the event log. All predicates of a
// rule must pass; Negate inverts a single predicate.
type EventPredicate struct {
	Field  EventField  `mapstructure:"field"`
	Op     PredicateOp `mapstructure:"op"`
	Value  string      `mapstructure:"value"`
	Negate bool        `mapstructure:"negate"`
}

// EventAgg aggregates the filtered events into a single number.
type EventAgg string

const (
	// AggCount counts matching events.
	AggCount EventAgg = "count"
	// AggSumValue sums the numeric payload of matching events.
	AggSumValue EventAgg = "sum_value"
)

// EventRule counts or sums play-by-play events for a subject.
type EventRule struct {
	Predicates []EventPredicate `mapstructure:"predicates"`

	// ActorSlot is the role slot that must hold the subject player ID.
	// Ignored for team subjects, which match on the event's crediting
	// team instead.
	ActorSlot int `mapstructure:"actor_slot"`

	// OpponentSlot, when >= 0, requires the actor in that slot to
	// belong to the subject's opponent (membership resolved via the
	// summary tables). Used for defensive stats credited against the
	// other team. -1 disables the check.
	OpponentSlot int `mapstructure:"opponent_slot"`

	Agg EventAgg `mapstructure:"agg"`
}
