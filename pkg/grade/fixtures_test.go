package grade

import (
	"time"

	"github.com/google/uuid"

	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

// Fixture IDs reused across the package tests.
const (
	teamLAL = "LAL"
	teamBOS = "BOS"

	playerJames = "p-james"
	playerDavis = "p-davis"
	playerTatum = "p-tatum"
	playerBrown = "p-brown"
)

var fixtureClock = time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixtureClock }

// at returns a wall-clock time n minutes into the fixture game.
func at(min int) time.Time {
	return time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func nbaProfile() *sport.Profile { return sport.BasketballNBA() }
func nhlProfile() *sport.Profile { return sport.IceHockeyNHL() }

// finalNBAGame is a completed regulation game: LAL 110, BOS 104.
func finalNBAGame() *snapshot.Game {
	return &snapshot.Game{
		GameID:      "nba-401",
		SportKey:    "basketball_nba",
		Status:      snapshot.StatusFinal,
		CompletedAt: at(150),
		Home: snapshot.TeamLine{
			TeamID: teamLAL,
			Name:   "Los Angeles Lakers",
			Score:  "110",
			PeriodScores: map[int]string{
				1: "25", 2: "30", 3: "28", 4: "27",
			},
			Fields: map[string]string{"REB": "44", "AST": "27", "TO": "12"},
		},
		Away: snapshot.TeamLine{
			TeamID: teamBOS,
			Name:   "Boston Celtics",
			Score:  "104",
			PeriodScores: map[int]string{
				1: "30", 2: "22", 3: "26", 4: "26",
			},
			Fields: map[string]string{"REB": "41", "AST": "24", "TO": "15"},
		},
		Players: []snapshot.PlayerLine{
			{PlayerID: playerJames, TeamID: teamLAL, Fields: map[string]string{
				"PTS": "31", "REB": "8", "AST": "9", "FG": "11-22", "3PT": "3-8", "FT": "6-7", "MIN": "38",
			}},
			{PlayerID: playerDavis, TeamID: teamLAL, Fields: map[string]string{
				"PTS": "24", "REB": "12", "AST": "2", "FG": "9-15",
			}},
			{PlayerID: playerTatum, TeamID: teamBOS, Fields: map[string]string{
				"PTS": "30", "REB": "11", "AST": "10", "FG": "10-21",
			}},
			{PlayerID: playerBrown, TeamID: teamBOS, Fields: map[string]string{
				"PTS": "26", "REB": "5", "AST": "4", "FG": "N/A", "3PT": "N/A",
			}},
		},
	}
}

// liveNBAGame is mid-game: two periods in the books, third underway.
func liveNBAGame() *snapshot.Game {
	g := finalNBAGame()
	g.Status = snapshot.StatusInProgress
	g.CompletedAt = time.Time{}
	g.Home.Score = ""
	g.Away.Score = ""
	g.Home.PeriodScores = map[int]string{1: "25", 2: "30"}
	g.Away.PeriodScores = map[int]string{1: "30", 2: "22"}
	return g
}

// scoringEvent builds a tagged scoring play credited to a team.
func scoringEvent(period, minute int, teamID string, points string, actors ...string) snapshot.Event {
	return snapshot.Event{
		Period:    period,
		WallClock: at(minute),
		Type:      "shot",
		Tags:      []string{"made", "scoring"},
		TeamID:    teamID,
		Actors:    actors,
		Value:     points,
	}
}

// pbpNBAGame is a completed game whose event log carries known
// per-period tallies:
//
//	period 1: James 2+3 (the 3 assisted by Davis), Tatum 2
//	period 2: James 2, Davis steal off Tatum, Tatum block on James
//	period 3: Tatum 3
//	period 4: James free throw, Davis rebound
func pbpNBAGame() *snapshot.Game {
	g := finalNBAGame()
	g.Events = []snapshot.Event{
		scoringEvent(1, 2, teamLAL, "2", playerJames),
		{Period: 1, WallClock: at(4), Type: "shot", Tags: []string{"made", "scoring", "3pt"},
			TeamID: teamLAL, Actors: []string{playerJames, playerDavis}, Value: "3"},
		scoringEvent(1, 7, teamBOS, "2", playerTatum),
		scoringEvent(2, 14, teamLAL, "2", playerJames),
		{Period: 2, WallClock: at(16), Type: "turnover", Tags: []string{"steal"},
			TeamID: teamBOS, Actors: []string{playerTatum, playerDavis}},
		{Period: 2, WallClock: at(18), Type: "shot", Tags: []string{"blocked"},
			TeamID: teamLAL, Actors: []string{playerJames, "", playerTatum}},
		{Period: 3, WallClock: at(40), Type: "shot", Tags: []string{"made", "scoring", "3pt"},
			TeamID: teamBOS, Actors: []string{playerTatum}, Value: "3"},
		{Period: 4, WallClock: at(55), Type: "free-throw", Tags: []string{"made", "scoring"},
			TeamID: teamLAL, Actors: []string{playerJames}, Value: "1"},
		{Period: 4, WallClock: at(58), Type: "rebound",
			TeamID: teamLAL, Actors: []string{playerDavis}},
	}
	return g
}

// doubleOTGame is a double-overtime contest: six periods of data.
func doubleOTGame() *snapshot.Game {
	g := finalNBAGame()
	g.Home.Score = "128"
	g.Away.Score = "126"
	g.Home.PeriodScores = map[int]string{1: "25", 2: "30", 3: "28", 4: "27", 5: "9", 6: "9"}
	g.Away.PeriodScores = map[int]string{1: "30", 2: "22", 3: "26", 4: "26", 5: "9", 6: "13"}
	g.Events = []snapshot.Event{
		scoringEvent(5, 125, teamLAL, "5", playerJames),
		scoringEvent(5, 127, teamBOS, "9", playerTatum),
		scoringEvent(6, 138, teamLAL, "4", playerJames),
		scoringEvent(6, 139, teamBOS, "13", playerTatum),
		scoringEvent(6, 141, teamLAL, "5", playerDavis),
	}
	return g
}

func teamPoints(teamID string, w sport.Window) Participant {
	return Participant{Kind: SubjectTeam, SubjectID: teamID, Metric: "points", Window: w}
}

func playerStat(playerID, metric string, w sport.Window) Participant {
	return Participant{Kind: SubjectPlayer, SubjectID: playerID, Metric: metric, Window: w}
}

func newBet(sportKey string, terms Terms) *Bet {
	return &Bet{ID: uuid.New(), SportKey: sportKey, Terms: terms}
}
