package espn

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddslab/gradebook/pkg/grade"
	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

const summaryDoc = `{
  "header": {
    "competitions": [{
      "id": "401585601",
      "date": "2026-01-15T03:05Z",
      "status": {"type": {"state": "post", "completed": true}},
      "competitors": [
        {
          "homeAway": "home",
          "score": "112",
          "team": {"displayName": "Los Angeles Lakers", "abbreviation": "LAL"},
          "linescores": [
            {"period": 1, "displayValue": "28"},
            {"period": 2, "displayValue": "30"},
            {"period": 3, "displayValue": "26"},
            {"period": 4, "displayValue": "28"}
          ]
        },
        {
          "homeAway": "away",
          "score": "108",
          "team": {"displayName": "Boston Celtics", "abbreviation": "BOS"},
          "linescores": [
            {"period": 1, "value": 27},
            {"period": 2, "value": 25},
            {"period": 3, "value": 29},
            {"period": 4, "value": 27}
          ]
        }
      ]
    }]
  },
  "boxscore": {
    "teams": [
      {
        "team": {"abbreviation": "LAL"},
        "statistics": [
          {"abbreviation": "REB", "displayValue": "44"},
          {"name": "assists", "displayValue": "25"}
        ]
      }
    ],
    "players": [
      {
        "team": {"abbreviation": "LAL"},
        "statistics": [{
          "name": "Starters",
          "labels": ["MIN", "PTS", "REB"],
          "athletes": [
            {
              "athlete": {"id": "1966", "displayName": "LeBron James"},
              "stats": ["36", "31", "8"]
            }
          ]
        }]
      }
    ]
  },
  "plays": [
    {
      "period": {"number": 1},
      "wallclock": "2026-01-15T00:12:44Z",
      "type": {"text": "Shot"},
      "team": {"abbreviation": "LAL"},
      "scoringPlay": true,
      "scoreValue": 3,
      "participants": [
        {"athlete": {"id": "1966"}},
        {"athlete": {"id": "4066"}}
      ]
    },
    {
      "period": {"number": 2},
      "type": {"text": "Rebound"},
      "team": {"displayName": "Boston Celtics"},
      "participants": [{"athlete": {"id": "4277"}}]
    },
    {
      "period": {"number": 1},
      "type": {"text": "Free Throw - 1 of 2"},
      "team": {"abbreviation": "LAL"},
      "scoringPlay": true,
      "scoreValue": 1,
      "participants": [{"athlete": {"id": "1966"}}]
    },
    {
      "period": {"number": 3},
      "type": {"text": "Lost Ball Turnover (Steal)"},
      "team": {"abbreviation": "LAL"},
      "participants": [
        {"athlete": {"id": "1966"}},
        {"athlete": {"id": "4277"}}
      ]
    }
  ]
}`

func parseDoc(t *testing.T) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(summaryDoc), &doc); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestBuildGame(t *testing.T) {
	g, err := BuildGame("basketball_nba", parseDoc(t))
	if err != nil {
		t.Fatalf("BuildGame: %v", err)
	}

	if g.GameID != "401585601" {
		t.Errorf("game id = %q", g.GameID)
	}
	if g.Status != snapshot.StatusFinal {
		t.Errorf("status = %s, want final", g.Status)
	}
	if !g.CompletedAt.IsZero() {
		t.Error("summary carries no end time; the scheduled start must not pose as one")
	}

	if g.Home.TeamID != "LAL" || g.Home.Score != "112" {
		t.Errorf("home = %+v", g.Home)
	}
	if g.Away.PeriodScores[3] != "29" {
		t.Errorf("away Q3 = %q, want 29 (from raw value)", g.Away.PeriodScores[3])
	}
	if g.Home.Fields["REB"] != "44" {
		t.Errorf("home REB = %q", g.Home.Fields["REB"])
	}
	if g.Home.Fields["ASSISTS"] != "25" {
		t.Errorf("home ASSISTS = %q", g.Home.Fields["ASSISTS"])
	}
}

func TestBuildGamePlayers(t *testing.T) {
	g, err := BuildGame("basketball_nba", parseDoc(t))
	if err != nil {
		t.Fatal(err)
	}

	p, ok := g.Player("1966")
	if !ok {
		t.Fatal("player 1966 missing")
	}
	if p.TeamID != "LAL" || p.Group != "starters" {
		t.Errorf("player line = %+v", p)
	}
	if p.Fields["PTS"] != "31" || p.Fields["MIN"] != "36" {
		t.Errorf("fields = %v", p.Fields)
	}
}

func TestBuildGameEvents(t *testing.T) {
	g, err := BuildGame("basketball_nba", parseDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Events) != 4 {
		t.Fatalf("events = %d, want 4", len(g.Events))
	}

	shot := g.Events[0]
	if shot.Type != "shot" || shot.TeamID != "LAL" || shot.Period != 1 {
		t.Errorf("shot = %+v", shot)
	}
	if !shot.HasTag("made") || !shot.HasTag("3pt") || !shot.HasTag("scoring") || shot.Value != "3" {
		t.Errorf("made three not tagged: %+v", shot)
	}
	if shot.Actor(1) != "4066" {
		t.Errorf("assist slot = %q", shot.Actor(1))
	}

	// The rebound names its team by display name only.
	if g.Events[1].Type != "rebound" || g.Events[1].TeamID != "BOS" {
		t.Errorf("rebound = %+v, want type rebound team BOS", g.Events[1])
	}

	if ft := g.Events[2]; ft.Type != "free-throw" || !ft.HasTag("made") || ft.Value != "1" {
		t.Errorf("free throw = %+v", ft)
	}
	if to := g.Events[3]; to.Type != "turnover" || !to.HasTag("steal") || to.Actor(1) != "4277" {
		t.Errorf("steal turnover = %+v", to)
	}
}

func TestClassifyPlay(t *testing.T) {
	tests := []struct {
		sport   string
		raw     string
		scoring bool
		points  int
		typ     string
		tags    []string
	}{
		{"basketball_nba", "Jump Shot", true, 2, "shot", []string{"made", "scoring"}},
		{"basketball_nba", "Three Point Jump Shot", false, 0, "shot", []string{"3pt"}},
		{"basketball_nba", "Free Throw - 2 of 2", true, 1, "free-throw", []string{"made", "scoring"}},
		{"basketball_nba", "Defensive Rebound", false, 0, "rebound", nil},
		{"basketball_nba", "Lost Ball Turnover (Steal)", false, 0, "turnover", []string{"steal"}},
		{"basketball_nba", "Block Shot", false, 0, "shot", []string{"blocked"}},
		{"basketball_nba", "Substitution", false, 0, "substitution", nil},
		{"ice_hockey_nhl", "Goal", true, 1, "goal", []string{"on-goal", "goal", "scoring"}},
		{"ice_hockey_nhl", "Shot", false, 0, "shot", []string{"on-goal"}},
		{"ice_hockey_nhl", "Missed Shot", false, 0, "shot", nil},
		{"ice_hockey_nhl", "Penalty", false, 0, "penalty", nil},
		{"ice_hockey_nhl", "Hit", false, 0, "hit", nil},
	}
	for _, tt := range tests {
		t.Run(tt.sport+"/"+tt.raw, func(t *testing.T) {
			typ, tags := classifyPlay(tt.sport, tt.raw, tt.scoring, tt.points)
			if typ != tt.typ || !reflect.DeepEqual(tags, tt.tags) {
				t.Errorf("classifyPlay(%q) = (%q, %v), want (%q, %v)", tt.raw, typ, tags, tt.typ, tt.tags)
			}
		})
	}
}

// Built snapshots must satisfy the profiles' event rules end to end:
// an assist inside a quarter window has to come out of the play-by-play
// with the tags the rules filter on.
func TestBuildGameGradesPeriodWindows(t *testing.T) {
	g, err := BuildGame("basketball_nba", parseDoc(t))
	if err != nil {
		t.Fatal(err)
	}

	bet := &grade.Bet{
		ID:       uuid.New(),
		SportKey: "basketball_nba",
		Terms: grade.Threshold{
			Subject: grade.Participant{
				Kind:      grade.SubjectPlayer,
				SubjectID: "4066",
				Metric:    "assists",
				Window:    sport.WindowQ1,
			},
			Dir:  grade.DirOver,
			Line: decimal.RequireFromString("0.5"),
		},
	}

	res, err := grade.ResolveBet(bet, g, sport.BasketballNBA())
	if err != nil {
		t.Fatalf("ResolveBet: %v", err)
	}
	if res.Outcome != grade.OutcomeWin {
		t.Errorf("q1 assists over 0.5 = %s, want %s (audit %+v)", res.Outcome, grade.OutcomeWin, res.Audit)
	}
}

func TestBuildGameNoCompetitions(t *testing.T) {
	if _, err := BuildGame("basketball_nba", map[string]interface{}{}); err == nil {
		t.Error("empty document must fail")
	}
}
