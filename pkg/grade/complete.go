package grade

import (
	"fmt"

	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

// Completeness is the verdict on whether a window can be graded from a
// snapshot. Reason is populated on the incomplete side and names what
// is missing, so "retry later" is distinguishable from a hard failure.
type Completeness struct {
	Complete bool
	Reason   string
}

// CheckComplete decides whether the snapshot contains enough finished
// play to grade the given window.
//
// Full game: complete once the status is final, or once the event log
// is non-empty — providers only export play-by-play for completed
// games, so a populated log counts as proof of completion. Narrower
// windows: complete when the game is final overall, or when both sides
// carry a summary score for every period the window needs.
func CheckComplete(profile *sport.Profile, window sport.Window, snap *snapshot.Game) Completeness {
	rule, ok := profile.WindowRule(window)
	if !ok {
		return Completeness{Reason: fmt.Sprintf("unknown window %q for sport %s", window, profile.SportKey)}
	}

	if rule.Dynamic == sport.DynamicFullGame {
		if snap.Status == snapshot.StatusFinal || len(snap.Events) > 0 {
			return Completeness{Complete: true}
		}
		return Completeness{Reason: fmt.Sprintf("game %s not final (status %s, no play-by-play)", snap.GameID, snap.Status)}
	}

	if snap.Status == snapshot.StatusFinal {
		return Completeness{Complete: true}
	}

	periods, err := ResolvePeriods(profile, window, snap)
	if err != nil {
		return Completeness{Reason: err.Error()}
	}
	for _, p := range periods {
		if !snap.HasPeriodScores(p) {
			return Completeness{Reason: fmt.Sprintf("game %s: period %d not yet complete", snap.GameID, p)}
		}
	}
	return Completeness{Complete: true}
}
