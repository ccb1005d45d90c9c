package grade

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

// maxDeriveDepth bounds derived-metric recursion. Validation rejects
// derived-from-derived rules, so one level is all a well-formed profile
// ever needs.
const maxDeriveDepth = 2

// extractor pulls numeric values for (subject, metric, window) triples
// out of one snapshot under one sport profile.
type extractor struct {
	profile *sport.Profile
	snap    *snapshot.Game
}

// value extracts one participant's stat. Full-game windows read the
// summary tables; every narrower window aggregates the event log over
// the window's resolved periods. Returns errUnavailable when the
// snapshot cannot produce the value; any other error is a
// configuration problem.
func (x *extractor) value(p Participant) (decimal.Decimal, error) {
	rule, ok := x.profile.Metric(p.Metric)
	if !ok {
		return decimal.Zero, fmt.Errorf("sport %s: unknown metric %q", x.profile.SportKey, p.Metric)
	}

	wr, ok := x.profile.WindowRule(p.Window)
	if !ok {
		return decimal.Zero, fmt.Errorf("sport %s: unknown window %q", x.profile.SportKey, p.Window)
	}

	if wr.Dynamic == sport.DynamicFullGame {
		return x.summaryValue(p, rule.Summary, 0)
	}
	return x.eventValue(p, rule.Events)
}

// --- summary-table strategy ---

func (x *extractor) summaryValue(p Participant, rule *sport.SummaryRule, depth int) (decimal.Decimal, error) {
	if rule == nil {
		return decimal.Zero, fmt.Errorf("metric %q: no summary strategy", p.Metric)
	}
	if depth >= maxDeriveDepth {
		return decimal.Zero, fmt.Errorf("metric %q: derivation too deep", p.Metric)
	}

	switch p.Kind {
	case SubjectTeam:
		return x.teamSummary(p, rule, depth)
	case SubjectPlayer:
		return x.playerSummary(p, rule, depth)
	default:
		return decimal.Zero, fmt.Errorf("unknown subject kind %q", p.Kind)
	}
}

func (x *extractor) teamSummary(p Participant, rule *sport.SummaryRule, depth int) (decimal.Decimal, error) {
	team, ok := x.snap.Team(p.SubjectID)
	if !ok {
		return decimal.Zero, errUnavailable
	}

	switch rule.Special {
	case sport.SpecialFinalScore:
		return x.teamScore(team)
	case sport.SpecialTeamSum:
		return x.teamSum(p.SubjectID, rule)
	}

	v, err := fieldValue(team.Fields, rule.Field, rule.Compound)
	if err == errUnavailable && len(rule.DerivedFrom) > 0 {
		return x.derive(p, rule.DerivedFrom, depth)
	}
	return v, err
}

func (x *extractor) playerSummary(p Participant, rule *sport.SummaryRule, depth int) (decimal.Decimal, error) {
	row, ok := x.playerRow(p.SubjectID, rule.Group)
	if !ok {
		return decimal.Zero, errUnavailable
	}

	v, err := fieldValue(row.Fields, rule.Field, rule.Compound)
	if err == errUnavailable && len(rule.DerivedFrom) > 0 {
		return x.derive(p, rule.DerivedFrom, depth)
	}
	return v, err
}

// playerRow locates the subject's summary row, respecting the rule's
// sub-group (e.g. only goalie rows for a save metric).
func (x *extractor) playerRow(playerID, group string) (*snapshot.PlayerLine, bool) {
	for i := range x.snap.Players {
		row := &x.snap.Players[i]
		if row.PlayerID != playerID {
			continue
		}
		if group != "" && row.Group != group {
			continue
		}
		return row, true
	}
	return nil, false
}

// teamScore reads the team's final score, falling back to the sum of
// its per-period scores when no whole-game figure is present.
func (x *extractor) teamScore(team *snapshot.TeamLine) (decimal.Decimal, error) {
	if v, ok := parseDecimal(team.Score); ok {
		return v, nil
	}
	if len(team.PeriodScores) == 0 {
		return decimal.Zero, errUnavailable
	}
	total := decimal.Zero
	for _, raw := range team.PeriodScores {
		v, ok := parseDecimal(raw)
		if !ok {
			return decimal.Zero, errUnavailable
		}
		total = total.Add(v)
	}
	return total, nil
}

// teamSum computes a team total by summing a per-player field across
// every qualifying row of the subject team.
func (x *extractor) teamSum(teamID string, rule *sport.SummaryRule) (decimal.Decimal, error) {
	total := decimal.Zero
	found := false
	for i := range x.snap.Players {
		row := &x.snap.Players[i]
		if row.TeamID != teamID {
			continue
		}
		if rule.Group != "" && row.Group != rule.Group {
			continue
		}
		raw, ok := row.Fields[rule.SumField]
		if !ok {
			continue
		}
		v, ok := parseDecimal(raw)
		if !ok {
			return decimal.Zero, errUnavailable
		}
		total = total.Add(v)
		found = true
	}
	if !found {
		return decimal.Zero, errUnavailable
	}
	return total, nil
}

// derive extracts each constituent metric and sums them. Either
// constituent being unavailable makes the whole value unavailable.
func (x *extractor) derive(p Participant, metrics []string, depth int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, name := range metrics {
		rule, ok := x.profile.Metric(name)
		if !ok {
			return decimal.Zero, fmt.Errorf("metric %q: derived from unknown metric %q", p.Metric, name)
		}
		dep := p
		dep.Metric = name
		v, err := x.summaryValue(dep, rule.Summary, depth+1)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// --- event-log strategy ---

func (x *extractor) eventValue(p Participant, rule *sport.EventRule) (decimal.Decimal, error) {
	if rule == nil {
		return decimal.Zero, fmt.Errorf("metric %q: no event strategy", p.Metric)
	}

	periods, err := ResolvePeriods(x.profile, p.Window, x.snap)
	if err != nil {
		return decimal.Zero, err
	}
	in := make(map[int]bool, len(periods))
	for _, pd := range periods {
		in[pd] = true
	}

	// Defensive stats credited against the other team need the
	// subject's opponent resolved up front.
	wantOpponent := ""
	if rule.OpponentSlot >= 0 {
		subjectTeam := p.SubjectID
		if p.Kind == SubjectPlayer {
			team, ok := x.snap.PlayerTeam(p.SubjectID)
			if !ok {
				return decimal.Zero, errUnavailable
			}
			subjectTeam = team
		}
		opp, ok := x.snap.Opponent(subjectTeam)
		if !ok {
			return decimal.Zero, errUnavailable
		}
		wantOpponent = opp
	}

	total := decimal.Zero
	for i := range x.snap.Events {
		ev := &x.snap.Events[i]
		if !in[ev.Period] {
			continue
		}
		if !matchAll(ev, rule.Predicates) {
			continue
		}
		switch p.Kind {
		case SubjectTeam:
			if ev.TeamID != p.SubjectID {
				continue
			}
		case SubjectPlayer:
			if ev.Actor(rule.ActorSlot) != p.SubjectID {
				continue
			}
		default:
			return decimal.Zero, fmt.Errorf("unknown subject kind %q", p.Kind)
		}
		if rule.OpponentSlot >= 0 {
			other := ev.Actor(rule.OpponentSlot)
			otherTeam, ok := x.snap.PlayerTeam(other)
			if !ok || otherTeam != wantOpponent {
				continue
			}
		}

		switch rule.Agg {
		case sport.AggCount:
			total = total.Add(decimal.NewFromInt(1))
		case sport.AggSumValue:
			v, ok := parseDecimal(ev.Value)
			if !ok {
				return decimal.Zero, errUnavailable
			}
			total = total.Add(v)
		default:
			return decimal.Zero, fmt.Errorf("metric %q: unknown aggregation %q", p.Metric, rule.Agg)
		}
	}
	return total, nil
}

func matchAll(ev *snapshot.Event, preds []sport.EventPredicate) bool {
	for i := range preds {
		if !matchPredicate(ev, &preds[i]) {
			return false
		}
	}
	return true
}

func matchPredicate(ev *snapshot.Event, pred *sport.EventPredicate) bool {
	switch pred.Op {
	case sport.OpGT, sport.OpGTE, sport.OpLT, sport.OpLTE:
		// Numeric comparisons apply to the event payload. A malformed
		// payload fails the predicate whether or not it is negated.
		have, ok := parseDecimal(ev.Value)
		if !ok {
			return false
		}
		want, ok := parseDecimal(pred.Value)
		if !ok {
			return false
		}
		var res bool
		switch pred.Op {
		case sport.OpGT:
			res = have.GreaterThan(want)
		case sport.OpGTE:
			res = have.GreaterThanOrEqual(want)
		case sport.OpLT:
			res = have.LessThan(want)
		case sport.OpLTE:
			res = have.LessThanOrEqual(want)
		}
		return res != pred.Negate
	}

	var res bool
	switch pred.Field {
	case sport.FieldTag:
		res = matchTags(ev.Tags, pred.Op, pred.Value)
	case sport.FieldType:
		res = matchString(ev.Type, pred.Op, pred.Value)
	case sport.FieldTeam:
		res = matchString(ev.TeamID, pred.Op, pred.Value)
	case sport.FieldValue:
		res = matchString(ev.Value, pred.Op, pred.Value)
	}
	return res != pred.Negate
}

func matchString(s string, op sport.PredicateOp, want string) bool {
	switch op {
	case sport.OpEquals:
		return s == want
	case sport.OpContains:
		return strings.Contains(s, want)
	case sport.OpPrefix:
		return strings.HasPrefix(s, want)
	}
	return false
}

func matchTags(tags []string, op sport.PredicateOp, want string) bool {
	for _, t := range tags {
		if matchString(t, op, want) {
			return true
		}
	}
	return false
}

// --- tolerant numeric parsing ---

// parseDecimal never fails loudly: malformed, missing and placeholder
// values all report unavailable instead.
func parseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "-", "--", "N/A", "n/a":
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// fieldValue reads a named summary field, splitting a compound
// "made-attempted" value when configured.
func fieldValue(fields map[string]string, field string, side sport.CompoundSide) (decimal.Decimal, error) {
	raw, ok := fields[field]
	if !ok {
		return decimal.Zero, errUnavailable
	}

	if side != sport.CompoundNone {
		parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
		if len(parts) != 2 {
			return decimal.Zero, errUnavailable
		}
		if side == sport.CompoundFirst {
			raw = parts[0]
		} else {
			raw = parts[1]
		}
	}

	v, ok := parseDecimal(raw)
	if !ok {
		return decimal.Zero, errUnavailable
	}
	return v, nil
}
