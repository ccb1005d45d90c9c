package grade

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oddslab/gradebook/pkg/sport"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComparisonOutcomes(t *testing.T) {
	snap := finalNBAGame() // LAL 110, BOS 104

	tests := []struct {
		name  string
		terms Comparison
		want  Outcome
	}{
		{
			name: "straight win",
			terms: Comparison{
				Left:  teamPoints(teamLAL, sport.WindowFullGame),
				Right: teamPoints(teamBOS, sport.WindowFullGame),
				Op:    OpGreaterThan,
			},
			want: OutcomeWin,
		},
		{
			name: "straight loss",
			terms: Comparison{
				Left:  teamPoints(teamBOS, sport.WindowFullGame),
				Right: teamPoints(teamLAL, sport.WindowFullGame),
				Op:    OpGreaterThan,
			},
			want: OutcomeLoss,
		},
		{
			name: "spread flips the favorite",
			terms: Comparison{
				Left:   teamPoints(teamLAL, sport.WindowFullGame),
				Right:  teamPoints(teamBOS, sport.WindowFullGame),
				Op:     OpGreaterThan,
				Spread: &Spread{Sign: "-", Points: dec("6.5")},
			},
			want: OutcomeLoss,
		},
		{
			name: "plus spread keeps the underdog alive",
			terms: Comparison{
				Left:   teamPoints(teamBOS, sport.WindowFullGame),
				Right:  teamPoints(teamLAL, sport.WindowFullGame),
				Op:     OpGreaterThan,
				Spread: &Spread{Sign: "+", Points: dec("7.5")},
			},
			want: OutcomeWin,
		},
		{
			name: "exact post-spread tie pushes",
			terms: Comparison{
				Left:   teamPoints(teamLAL, sport.WindowFullGame),
				Right:  teamPoints(teamBOS, sport.WindowFullGame),
				Op:     OpGreaterThan,
				Spread: &Spread{Sign: "-", Points: dec("6")},
			},
			want: OutcomePush,
		},
		{
			name: "at-least grades a tie as a loss",
			terms: Comparison{
				Left:   teamPoints(teamLAL, sport.WindowFullGame),
				Right:  teamPoints(teamBOS, sport.WindowFullGame),
				Op:     OpAtLeast,
				Spread: &Spread{Sign: "-", Points: dec("6")},
			},
			want: OutcomeLoss,
		},
		{
			name: "unavailable operand voids",
			terms: Comparison{
				Left:  teamPoints("NYK", sport.WindowFullGame),
				Right: teamPoints(teamBOS, sport.WindowFullGame),
				Op:    OpGreaterThan,
			},
			want: OutcomeVoid,
		},
	}

	x := &extractor{profile: nbaProfile(), snap: snap}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, window, audit, err := resolveOutcome(tt.terms, x)
			if err != nil {
				t.Fatalf("resolveOutcome: %v", err)
			}
			if got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}
			if window != sport.WindowFullGame {
				t.Errorf("window = %s, want %s", window, sport.WindowFullGame)
			}
			if len(audit.Values) != 2 {
				t.Fatalf("audit values = %d, want 2", len(audit.Values))
			}
		})
	}
}

// A -3.5 favorite winning 106-104 loses against the spread.
func TestComparisonAgainstTheSpread(t *testing.T) {
	snap := finalNBAGame()
	snap.Home.Score = "106"
	snap.Away.Score = "104"

	terms := Comparison{
		Left:   teamPoints(teamLAL, sport.WindowFullGame),
		Right:  teamPoints(teamBOS, sport.WindowFullGame),
		Op:     OpGreaterThan,
		Spread: &Spread{Sign: "-", Points: dec("3.5")},
	}

	x := &extractor{profile: nbaProfile(), snap: snap}
	got, _, audit, err := resolveOutcome(terms, x)
	if err != nil {
		t.Fatalf("resolveOutcome: %v", err)
	}
	if got != OutcomeLoss {
		t.Errorf("outcome = %s, want %s", got, OutcomeLoss)
	}
	if adj := audit.Values[0].Adjusted; !adj.Equal(dec("102.5")) {
		t.Errorf("adjusted = %s, want 102.5", adj)
	}
}

// Swapping participants of a spread-free comparison inverts the
// outcome; pushes and voids stay put.
func TestComparisonSwapProperty(t *testing.T) {
	snaps := map[string]func() Comparison{
		"decisive": func() Comparison {
			return Comparison{
				Left:  teamPoints(teamLAL, sport.WindowFullGame),
				Right: teamPoints(teamBOS, sport.WindowFullGame),
				Op:    OpGreaterThan,
			}
		},
	}
	inverse := map[Outcome]Outcome{
		OutcomeWin: OutcomeLoss, OutcomeLoss: OutcomeWin,
		OutcomePush: OutcomePush, OutcomeVoid: OutcomeVoid,
	}

	x := &extractor{profile: nbaProfile(), snap: finalNBAGame()}
	for name, mk := range snaps {
		t.Run(name, func(t *testing.T) {
			terms := mk()
			fwd, _, _, err := resolveOutcome(terms, x)
			if err != nil {
				t.Fatal(err)
			}
			terms.Left, terms.Right = terms.Right, terms.Left
			rev, _, _, err := resolveOutcome(terms, x)
			if err != nil {
				t.Fatal(err)
			}
			if rev != inverse[fwd] {
				t.Errorf("swapped outcome = %s, want %s", rev, inverse[fwd])
			}
		})
	}
}

func TestThresholdOutcomes(t *testing.T) {
	tests := []struct {
		name string
		pts  string
		dir  ThresholdDir
		line string
		want Outcome
	}{
		// A half-point line can never push.
		{"over half-point line, under", "10", DirOver, "10.5", OutcomeLoss},
		{"over half-point line, over", "11", DirOver, "10.5", OutcomeWin},
		{"exactly on the line pushes over", "25", DirOver, "25", OutcomePush},
		{"exactly on the line pushes under", "25", DirUnder, "25", OutcomePush},
		{"under wins below the line", "18", DirUnder, "20.5", OutcomeWin},
		{"under loses above the line", "23", DirUnder, "20.5", OutcomeLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := finalNBAGame()
			snap.Players[0].Fields["PTS"] = tt.pts

			terms := Threshold{
				Subject: playerStat(playerJames, "points", sport.WindowFullGame),
				Dir:     tt.dir,
				Line:    dec(tt.line),
			}
			x := &extractor{profile: nbaProfile(), snap: snap}
			got, _, audit, err := resolveOutcome(terms, x)
			if err != nil {
				t.Fatalf("resolveOutcome: %v", err)
			}
			if got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}
			if audit.Line == nil || !audit.Line.Equal(dec(tt.line)) {
				t.Errorf("audit line = %v, want %s", audit.Line, tt.line)
			}
		})
	}
}

func TestThresholdUnavailableVoids(t *testing.T) {
	terms := Threshold{
		Subject: playerStat("p-nobody", "points", sport.WindowFullGame),
		Dir:     DirOver,
		Line:    dec("10.5"),
	}
	x := &extractor{profile: nbaProfile(), snap: finalNBAGame()}
	got, _, audit, err := resolveOutcome(terms, x)
	if err != nil {
		t.Fatalf("resolveOutcome: %v", err)
	}
	if got != OutcomeVoid {
		t.Errorf("outcome = %s, want %s", got, OutcomeVoid)
	}
	if audit.Note == "" {
		t.Error("void must carry an audit note")
	}
}

func TestEventBetOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		pts   string
		reb   string
		ast   string
		event EventType
		want  Outcome
	}{
		// One stat in double figures is not a double-double.
		{"single stat misses", "11", "5", "4", EventDoubleDouble, OutcomeLoss},
		{"two stats hit", "11", "12", "4", EventDoubleDouble, OutcomeWin},
		{"exactly ten counts", "10", "10", "4", EventDoubleDouble, OutcomeWin},
		{"triple double", "11", "12", "10", EventTripleDouble, OutcomeWin},
		{"double-double is not a triple-double", "11", "12", "9", EventTripleDouble, OutcomeLoss},
		{"never pushes", "10", "10", "10", EventDoubleDouble, OutcomeWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := finalNBAGame()
			snap.Players[0].Fields["PTS"] = tt.pts
			snap.Players[0].Fields["REB"] = tt.reb
			snap.Players[0].Fields["AST"] = tt.ast

			terms := EventBet{
				Subject: playerStat(playerJames, "", sport.WindowFullGame),
				Event:   tt.event,
			}
			x := &extractor{profile: nbaProfile(), snap: snap}
			got, _, _, err := resolveOutcome(terms, x)
			if err != nil {
				t.Fatalf("resolveOutcome: %v", err)
			}
			if got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEventBetMissingStatVoids(t *testing.T) {
	snap := finalNBAGame()
	delete(snap.Players[0].Fields, "REB")

	terms := EventBet{
		Subject: playerStat(playerJames, "", sport.WindowFullGame),
		Event:   EventDoubleDouble,
	}
	x := &extractor{profile: nbaProfile(), snap: snap}
	got, _, audit, err := resolveOutcome(terms, x)
	if err != nil {
		t.Fatalf("resolveOutcome: %v", err)
	}
	if got != OutcomeVoid {
		t.Errorf("outcome = %s, want %s", got, OutcomeVoid)
	}
	if audit.Note == "" {
		t.Error("void must carry an audit note")
	}
}

func TestUnknownEventTypeVoidsWithReason(t *testing.T) {
	terms := EventBet{
		Subject: playerStat(playerJames, "", sport.WindowFullGame),
		Event:   EventType("five_by_five"),
	}
	x := &extractor{profile: nbaProfile(), snap: finalNBAGame()}
	got, _, audit, err := resolveOutcome(terms, x)
	if err != nil {
		t.Fatalf("resolveOutcome: %v", err)
	}
	if got != OutcomeVoid {
		t.Errorf("outcome = %s, want %s", got, OutcomeVoid)
	}
	if audit.Note == "" {
		t.Error("unimplemented event type must explain itself")
	}
}

type bogusTerms struct{}

func (bogusTerms) betTerms() {}

func TestUnsupportedShape(t *testing.T) {
	x := &extractor{profile: nbaProfile(), snap: finalNBAGame()}
	_, _, _, err := resolveOutcome(bogusTerms{}, x)
	if !IsUnsupported(err) {
		t.Fatalf("got %v, want UnsupportedError", err)
	}
}
