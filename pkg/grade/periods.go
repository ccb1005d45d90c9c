package grade

import (
	"fmt"

	"github.com/oddslab/gradebook/pkg/snapshot"
	"github.com/oddslab/gradebook/pkg/sport"
)

// ResolvePeriods maps a symbolic window to the concrete period indices
// it covers in this snapshot. Static windows return their configured
// list; dynamic windows scan the snapshot for the highest period
// present, so a double-overtime game yields every extra period, not
// just the first. A pure function of its inputs: no caching across
// snapshots.
func ResolvePeriods(profile *sport.Profile, window sport.Window, snap *snapshot.Game) ([]int, error) {
	rule, ok := profile.WindowRule(window)
	if !ok {
		return nil, fmt.Errorf("sport %s: unknown window %q", profile.SportKey, window)
	}

	if rule.Dynamic == sport.DynamicNone {
		out := make([]int, len(rule.Static))
		copy(out, rule.Static)
		return out, nil
	}

	max := snap.MaxPeriod()
	switch rule.Dynamic {
	case sport.DynamicFullGame:
		if max < profile.RegulationPeriods {
			max = profile.RegulationPeriods
		}
		return periodRange(1, max), nil
	case sport.DynamicOvertime:
		if max <= profile.RegulationPeriods {
			// Nothing discoverable beyond regulation; assume the
			// sport's static overtime range.
			out := make([]int, len(profile.OvertimeFallback))
			copy(out, profile.OvertimeFallback)
			return out, nil
		}
		return periodRange(profile.RegulationPeriods+1, max), nil
	default:
		return nil, fmt.Errorf("sport %s: unknown dynamic rule %q", profile.SportKey, rule.Dynamic)
	}
}

// windowOccurred reports whether the window covers any period the
// contest actually reached. Only dynamic overtime windows can fail to
// occur; regulation windows exist in every contest, and the full-game
// window always spans at least regulation.
func windowOccurred(profile *sport.Profile, window sport.Window, snap *snapshot.Game) bool {
	rule, ok := profile.WindowRule(window)
	if !ok || rule.Dynamic != sport.DynamicOvertime {
		return true
	}
	return snap.MaxPeriod() > profile.RegulationPeriods
}

func periodRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}
	return out
}
