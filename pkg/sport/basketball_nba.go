package sport

// BasketballNBA returns the built-in NBA profile.
//
// Summary field names follow the ESPN box score labels. Event rules
// assume the play-by-play taxonomy produced by the espn provider:
// "shot" events carry the shooter in slot 0, the assisting player in
// slot 1 and the blocking player in slot 2; "turnover" events carry the
// committing player in slot 0 and the stealing player in slot 1.
// Scoring plays are tagged "scoring" with the scored points as payload.
func BasketballNBA() *Profile {
	return &Profile{
		SportKey:          "basketball_nba",
		DisplayName:       "NBA",
		RegulationPeriods: 4,
		Windows: map[Window]PeriodRule{
			WindowFullGame:   {Dynamic: DynamicFullGame},
			WindowQ1:         {Static: []int{1}},
			WindowQ2:         {Static: []int{2}},
			WindowQ3:         {Static: []int{3}},
			WindowQ4:         {Static: []int{4}},
			WindowFirstHalf:  {Static: []int{1, 2}},
			WindowSecondHalf: {Static: []int{3, 4}},
			WindowOvertime:   {Dynamic: DynamicOvertime},
		},
		OvertimeFallback: []int{5},
		Metrics: map[string]ExtractionRule{
			"points": {
				Summary: &SummaryRule{Field: "PTS", Special: SpecialFinalScore},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldTag, Op: OpEquals, Value: "scoring"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggSumValue,
				},
			},
			"rebounds": {
				Summary: &SummaryRule{Field: "REB"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "rebound"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			// Assists are credited to slot 1 of a made shot, the way the
			// provider's play-by-play records them.
			"assists": {
				Summary: &SummaryRule{Field: "AST"},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "made"},
					},
					ActorSlot:    1,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			// A steal is slot 1 of the opponent's turnover.
			"steals": {
				Summary: &SummaryRule{Field: "STL"},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "turnover"},
						{Field: FieldTag, Op: OpEquals, Value: "steal"},
					},
					ActorSlot:    1,
					OpponentSlot: 0,
					Agg:          AggCount,
				},
			},
			// A block is slot 2 of the opponent's blocked shot.
			"blocks": {
				Summary: &SummaryRule{Field: "BLK"},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "blocked"},
					},
					ActorSlot:    2,
					OpponentSlot: 0,
					Agg:          AggCount,
				},
			},
			"turnovers": {
				Summary: &SummaryRule{Field: "TO"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "turnover"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"field_goals_made": {
				Summary: &SummaryRule{Field: "FG", Compound: CompoundFirst},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "made"},
					},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"field_goals_attempted": {
				Summary: &SummaryRule{Field: "FG", Compound: CompoundSecond},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "shot"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"three_pointers_made": {
				Summary: &SummaryRule{Field: "3PT", Compound: CompoundFirst},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "3pt"},
						{Field: FieldTag, Op: OpEquals, Value: "made"},
					},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"three_pointers_attempted": {
				Summary: &SummaryRule{Field: "3PT", Compound: CompoundSecond},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "shot"},
						{Field: FieldTag, Op: OpEquals, Value: "3pt"},
					},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"free_throws_made": {
				Summary: &SummaryRule{Field: "FT", Compound: CompoundFirst},
				Events: &EventRule{
					Predicates: []EventPredicate{
						{Field: FieldType, Op: OpEquals, Value: "free-throw"},
						{Field: FieldTag, Op: OpEquals, Value: "made"},
					},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"free_throws_attempted": {
				Summary: &SummaryRule{Field: "FT", Compound: CompoundSecond},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "free-throw"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"team_rebounds": {
				Summary: &SummaryRule{Special: SpecialTeamSum, SumField: "REB"},
				Events: &EventRule{
					Predicates:   []EventPredicate{{Field: FieldType, Op: OpEquals, Value: "rebound"}},
					ActorSlot:    0,
					OpponentSlot: -1,
					Agg:          AggCount,
				},
			},
			"points_rebounds_assists": {
				Summary: &SummaryRule{DerivedFrom: []string{"points", "rebounds", "assists"}},
			},
			"minutes": {
				Summary: &SummaryRule{Field: "MIN"},
			},
		},
	}
}
