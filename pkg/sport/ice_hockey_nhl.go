package sport

// IceHockeyNHL returns the built-in NHL profile.
//
// Player summary rows are split into the "skaters" and "goalies"
// sub-tables; saves read only the goalie rows. In the play-by-play
// taxonomy produced by the espn provider, a stopped or saved attempt
// is a "shot" event tagged "on-goal" with the shooter in slot 0 and
// the goalie in slot 1; a score is a "goal" event tagged
// "on-goal"/"goal"/"scoring" with the scorer in slot 0, followed by
// one "assist" event per credited assister.
func IceHockeyNHL() *Profile {
	return &Profile{
		SportKey:          "ice_hockey_nhl",
		DisplayName:       "NHL",
		RegulationPeriods: 3,
		Windows: map[Window]PeriodRule{
			WindowFullGame: {Dynamic: DynamicFullGame},
			WindowP1:       {Static: []int{1}},
			WindowP2:       {Static: []int{2}},
			WindowP3:       {Static: []int{3}},
			WindowOvertime: {Dynamic: DynamicOvertime},
		},
		OvertimeFallback: []int{4},
		Metrics: map[string]ExtractionRule{
			"goals": {
				Summary: &SummaryRule{Field: "G", Special: SpecialFinalScore},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "goal"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"assists": {
				Summary: &SummaryRule{Field: "A"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "assist"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"points": {
				Summary: &SummaryRule{DerivedFrom: []string{"goals", "assists"}},
			},
			// Tag-only so that goal events, which are on goal by
			// definition, count toward the total.
			"shots_on_goal": {
				Summary: &SummaryRule{Field: "SOG"},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldTag, Op: OpEquals, Value: "on-goal"},
					},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			// A save is an on-goal shot by the opponent that did not
			// score, credited to the goalie in slot 1.
			"saves": {
				Summary: &SummaryRule{Field: "SV", Group: "goalies"},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "on-goal"},
						{Field: FieldTag, Op: OpEquals, Value: "goal", Negate: true},
					},
					ActorSlot:    1,
					OpponentSlot: 0,
					Agg:          AggCount,
				},
			},
			"penalty_minutes": {
				Summary: &SummaryRule{Field: "PIM"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "penalty"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggSumValue,
				},
			},
			"hits": {
				Summary: &SummaryRule{Field: "HITS"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "hit"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
		},
	}
}
