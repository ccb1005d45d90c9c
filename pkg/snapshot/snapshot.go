// Package snapshot defines the immutable in-memory view of a single
// sporting contest consumed by the grading engine. A snapshot combines
// whole-game summary lines (per team and per player) with an ordered
// play-by-play event log; the engine never mutates or retains one.
package snapshot

import "time"

// Status represents the lifecycle state of a contest.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
)

// TeamLine is a team's summary row: aggregate fields plus per-period
// scoring, keyed by 1-based period index. Field values are kept raw
// (provider strings); parsing happens at extraction time.
type TeamLine struct {
	TeamID       string            `json:"team_id"`
	Name         string            `json:"name,omitempty"`
	Score        string            `json:"score,omitempty"`
	PeriodScores map[int]string    `json:"period_scores,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// PlayerLine is one player's summary row. Group distinguishes summary
// sub-tables within a team (e.g. "skaters" vs "goalies" in hockey).
type PlayerLine struct {
	PlayerID string            `json:"player_id"`
	Name     string            `json:"name,omitempty"`
	TeamID   string            `json:"team_id"`
	Group    string            `json:"group,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Event is a single play-by-play entry. Actors lists participant IDs in
// fixed role slots (slot 0 is the primary actor; the meaning of later
// slots is event-type specific, e.g. the assisting player on a made
// shot). Value is an optional numeric payload, raw.
type Event struct {
	Period    int       `json:"period"`
	WallClock time.Time `json:"wall_clock"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	Actors    []string  `json:"actors,omitempty"`
	Value     string    `json:"value,omitempty"`
}

// HasTag reports whether the event carries the given category tag.
func (e *Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Actor returns the participant ID in the given role slot, or "" if the
// slot is absent.
func (e *Event) Actor(slot int) string {
	if slot < 0 || slot >= len(e.Actors) {
		return ""
	}
	return e.Actors[slot]
}

// Game is the full contest snapshot.
type Game struct {
	GameID      string       `json:"game_id"`
	SportKey    string       `json:"sport_key"`
	Status      Status       `json:"status"`
	CompletedAt time.Time    `json:"completed_at,omitempty"`
	Home        TeamLine     `json:"home"`
	Away        TeamLine     `json:"away"`
	Players     []PlayerLine `json:"players,omitempty"`
	Events      []Event      `json:"events,omitempty"`
}

// Team returns the summary line for the given team ID.
func (g *Game) Team(teamID string) (*TeamLine, bool) {
	switch teamID {
	case g.Home.TeamID:
		return &g.Home, true
	case g.Away.TeamID:
		return &g.Away, true
	}
	return nil, false
}

// Opponent returns the team facing teamID in this contest.
func (g *Game) Opponent(teamID string) (string, bool) {
	switch teamID {
	case g.Home.TeamID:
		return g.Away.TeamID, true
	case g.Away.TeamID:
		return g.Home.TeamID, true
	}
	return "", false
}

// Player returns the summary line for the given player ID.
func (g *Game) Player(playerID string) (*PlayerLine, bool) {
	for i := range g.Players {
		if g.Players[i].PlayerID == playerID {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// PlayerTeam resolves a player's team membership via the summary rows.
func (g *Game) PlayerTeam(playerID string) (string, bool) {
	p, ok := g.Player(playerID)
	if !ok {
		return "", false
	}
	return p.TeamID, true
}

// MaxPeriod returns the highest period index present anywhere in the
// snapshot: per-period summary scores or the event log. Returns 0 when
// neither carries period data.
func (g *Game) MaxPeriod() int {
	max := 0
	for p := range g.Home.PeriodScores {
		if p > max {
			max = p
		}
	}
	for p := range g.Away.PeriodScores {
		if p > max {
			max = p
		}
	}
	for i := range g.Events {
		if g.Events[i].Period > max {
			max = g.Events[i].Period
		}
	}
	return max
}

// HasPeriodScores reports whether both sides carry a summary score for
// the given period.
func (g *Game) HasPeriodScores(period int) bool {
	_, home := g.Home.PeriodScores[period]
	_, away := g.Away.PeriodScores[period]
	return home && away
}

// LastEventIn returns the wall-clock time of the latest event whose
// period is in the given set. The log is ordered, so this is the last
// matching entry.
func (g *Game) LastEventIn(periods []int) (time.Time, bool) {
	in := make(map[int]bool, len(periods))
	for _, p := range periods {
		in[p] = true
	}
	for i := len(g.Events) - 1; i >= 0; i-- {
		if in[g.Events[i].Period] {
			return g.Events[i].WallClock, true
		}
	}
	return time.Time{}, false
}
