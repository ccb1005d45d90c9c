package espn

import (
	"fmt"
	"strings"
	"time"

	"github.com/oddslab/gradebook/pkg/snapshot"
)

// BuildGame converts a raw ESPN game summary document into a grading
// snapshot. Missing sections degrade to empty snapshot parts rather
// than errors; the grading engine treats absent data as unavailable.
func BuildGame(sportKey string, doc map[string]interface{}) (*snapshot.Game, error) {
	header := extractMap(doc, "header")
	competitions := extractArray(header, "competitions")
	if len(competitions) == 0 {
		return nil, fmt.Errorf("espn summary: no competitions in header")
	}
	comp, ok := competitions[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("espn summary: malformed competition")
	}

	g := &snapshot.Game{
		GameID:   extractString(comp, "id"),
		SportKey: sportKey,
		Status:   parseStatus(extractMap(extractMap(comp, "status"), "type")),
	}
	if g.GameID == "" {
		g.GameID = extractString(header, "id")
	}
	// The competition date is the scheduled start, not an end time; the
	// summary carries no completion timestamp, so CompletedAt stays zero
	// and settlement ordering falls back to the play-by-play clock.

	for _, raw := range extractArray(comp, "competitors") {
		side, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		line := buildTeamLine(sportKey, side)
		if extractString(side, "homeAway") == "home" {
			g.Home = line
		} else {
			g.Away = line
		}
	}

	g.Players = buildPlayers(extractMap(doc, "boxscore"), g)
	g.Events = buildEvents(extractArray(doc, "plays"), g)

	attachTeamStats(extractMap(doc, "boxscore"), g)

	return g, nil
}

// parseStatus converts ESPN's status.type object to a snapshot status.
func parseStatus(statusType map[string]interface{}) snapshot.Status {
	if completed, ok := statusType["completed"].(bool); ok && completed {
		return snapshot.StatusFinal
	}
	switch extractString(statusType, "state") {
	case "in":
		return snapshot.StatusInProgress
	case "post":
		return snapshot.StatusFinal
	}
	return snapshot.StatusScheduled
}

// parseTimestamp parses ESPN's RFC3339-ish date strings.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04Z", s); err == nil {
		return t
	}
	return time.Time{}
}

func buildTeamLine(sportKey string, side map[string]interface{}) snapshot.TeamLine {
	team := extractMap(side, "team")
	name := extractString(team, "displayName")

	line := snapshot.TeamLine{
		TeamID: TeamID(sportKey, name),
		Name:   name,
		Score:  extractString(side, "score"),
	}
	if abbr := extractString(team, "abbreviation"); abbr != "" {
		line.TeamID = strings.ToUpper(abbr)
	}

	for i, raw := range extractArray(side, "linescores") {
		ls, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if line.PeriodScores == nil {
			line.PeriodScores = make(map[int]string)
		}
		period := i + 1
		if p := extractInt(ls, "period"); p > 0 {
			period = p
		}
		line.PeriodScores[period] = extractNumberString(ls, "displayValue", "value")
	}
	return line
}

// buildPlayers flattens the box score player tables. ESPN groups each
// team's players into one or more statistic tables whose "keys" row
// names the columns; rows carry positional "stats".
func buildPlayers(boxscore map[string]interface{}, g *snapshot.Game) []snapshot.PlayerLine {
	var out []snapshot.PlayerLine

	for _, raw := range extractArray(boxscore, "players") {
		teamBlock, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		teamID := resolveTeamID(extractMap(teamBlock, "team"), g)

		for _, rawStats := range extractArray(teamBlock, "statistics") {
			table, ok := rawStats.(map[string]interface{})
			if !ok {
				continue
			}
			group := strings.ToLower(extractString(table, "name"))
			labels := extractStrings(table, "labels")
			if len(labels) == 0 {
				labels = extractStrings(table, "keys")
			}

			for _, rawAth := range extractArray(table, "athletes") {
				row, ok := rawAth.(map[string]interface{})
				if !ok {
					continue
				}
				athlete := extractMap(row, "athlete")
				line := snapshot.PlayerLine{
					PlayerID: extractString(athlete, "id"),
					Name:     extractString(athlete, "displayName"),
					TeamID:   teamID,
					Group:    group,
				}
				stats := extractStrings(row, "stats")
				for i, label := range labels {
					if i >= len(stats) {
						break
					}
					if line.Fields == nil {
						line.Fields = make(map[string]string)
					}
					line.Fields[strings.ToUpper(label)] = stats[i]
				}
				if line.PlayerID != "" {
					out = append(out, line)
				}
			}
		}
	}
	return out
}

// attachTeamStats copies the box score team totals onto the team lines.
func attachTeamStats(boxscore map[string]interface{}, g *snapshot.Game) {
	for _, raw := range extractArray(boxscore, "teams") {
		block, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		teamID := resolveTeamID(extractMap(block, "team"), g)
		line, ok := g.Team(teamID)
		if !ok {
			continue
		}
		for _, rawStat := range extractArray(block, "statistics") {
			stat, ok := rawStat.(map[string]interface{})
			if !ok {
				continue
			}
			label := strings.ToUpper(extractString(stat, "abbreviation"))
			if label == "" {
				label = strings.ToUpper(extractString(stat, "name"))
			}
			if label == "" {
				continue
			}
			if line.Fields == nil {
				line.Fields = make(map[string]string)
			}
			line.Fields[label] = extractNumberString(stat, "displayValue", "value")
		}
	}
}

// buildEvents converts ESPN plays into snapshot events, normalizing
// the provider's play types onto the taxonomy the sport profiles
// filter on. Scoring plays carry the point value as payload;
// participant athlete IDs fill the actor slots in feed order.
func buildEvents(plays []interface{}, g *snapshot.Game) []snapshot.Event {
	var out []snapshot.Event

	for _, raw := range plays {
		play, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		scoring, _ := play["scoringPlay"].(bool)
		evType, tags := classifyPlay(g.SportKey,
			extractString(extractMap(play, "type"), "text"),
			scoring, extractInt(play, "scoreValue"))

		ev := snapshot.Event{
			Period:    extractInt(extractMap(play, "period"), "number"),
			WallClock: parseTimestamp(extractString(play, "wallclock")),
			Type:      evType,
			Tags:      tags,
			TeamID:    resolveTeamID(extractMap(play, "team"), g),
		}
		if scoring {
			ev.Value = extractNumberString(play, "scoreValue", "scoreValue")
		}
		for _, rawPart := range extractArray(play, "participants") {
			part, ok := rawPart.(map[string]interface{})
			if !ok {
				continue
			}
			ev.Actors = append(ev.Actors, extractString(extractMap(part, "athlete"), "id"))
		}
		out = append(out, ev)

		// Hockey goals list the assisters as trailing participants;
		// emit them as assist events so per-period assist counts work.
		if evType == "goal" {
			for i := 1; i < len(ev.Actors); i++ {
				if ev.Actors[i] == "" {
					continue
				}
				out = append(out, snapshot.Event{
					Period:    ev.Period,
					WallClock: ev.WallClock,
					Type:      "assist",
					TeamID:    ev.TeamID,
					Actors:    []string{ev.Actors[i]},
				})
			}
		}
	}
	return out
}

// classifyPlay maps a provider play type onto the event types and tags
// the sport profiles reference.
func classifyPlay(sportKey, rawType string, scoring bool, points int) (string, []string) {
	t := strings.ToLower(rawType)
	if sportKey == "ice_hockey_nhl" {
		return classifyHockeyPlay(t)
	}
	return classifyBasketballPlay(t, scoring, points)
}

func classifyBasketballPlay(t string, scoring bool, points int) (string, []string) {
	var tags []string
	made := func() {
		if scoring {
			tags = append(tags, "made", "scoring")
		}
	}
	switch {
	case strings.Contains(t, "free throw"):
		made()
		return "free-throw", tags
	case strings.Contains(t, "rebound"):
		return "rebound", nil
	case strings.Contains(t, "turnover"), strings.Contains(t, "steal"),
		strings.Contains(t, "bad pass"), strings.Contains(t, "traveling"):
		if strings.Contains(t, "steal") {
			tags = append(tags, "steal")
		}
		return "turnover", tags
	case strings.Contains(t, "block"):
		return "shot", []string{"blocked"}
	case strings.Contains(t, "shot"), strings.Contains(t, "layup"),
		strings.Contains(t, "dunk"), strings.Contains(t, "jumper"),
		strings.Contains(t, "tip"), strings.Contains(t, "three point"):
		if points == 3 || strings.Contains(t, "three point") {
			tags = append(tags, "3pt")
		}
		made()
		return "shot", tags
	default:
		if scoring {
			tags = append(tags, "scoring")
		}
		return strings.Join(strings.Fields(t), "-"), tags
	}
}

func classifyHockeyPlay(t string) (string, []string) {
	switch {
	case strings.Contains(t, "goal") && !strings.Contains(t, "shot"):
		return "goal", []string{"on-goal", "goal", "scoring"}
	case strings.Contains(t, "missed"), strings.Contains(t, "blocked"):
		return "shot", nil
	case strings.Contains(t, "shot"), strings.Contains(t, "save"):
		return "shot", []string{"on-goal"}
	case strings.Contains(t, "penalty"):
		return "penalty", nil
	case strings.Contains(t, "hit"):
		return "hit", nil
	default:
		return strings.Join(strings.Fields(t), "-"), nil
	}
}

// resolveTeamID matches an ESPN team object against the snapshot's two
// sides, falling back to the abbreviation.
func resolveTeamID(team map[string]interface{}, g *snapshot.Game) string {
	if abbr := strings.ToUpper(extractString(team, "abbreviation")); abbr != "" {
		return abbr
	}
	name := extractString(team, "displayName")
	for _, line := range []snapshot.TeamLine{g.Home, g.Away} {
		if line.Name != "" && normalizeName(line.Name) == normalizeName(name) {
			return line.TeamID
		}
	}
	return TeamID(g.SportKey, name)
}
