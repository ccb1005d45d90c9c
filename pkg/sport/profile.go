// Package sport holds the static per-sport configuration the grading
// engine runs on: a period taxonomy mapping symbolic windows to
// underlying period indices, and a metric table mapping each stat to
// its extraction strategies. Profiles are built (or loaded) once at
// startup and never mutated afterwards.
package sport

// Window identifies a symbolic slice of a contest.
type Window string

const (
	WindowFullGame   Window = "full_game"
	WindowFirstHalf  Window = "first_half"
	WindowSecondHalf Window = "second_half"
	WindowQ1         Window = "q1"
	WindowQ2         Window = "q2"
	WindowQ3         Window = "q3"
	WindowQ4         Window = "q4"
	WindowP1         Window = "p1"
	WindowP2         Window = "p2"
	WindowP3         Window = "p3"
	WindowOvertime   Window = "overtime"
)

// DynamicKind selects a period-discovery rule for windows whose
// underlying period set depends on the snapshot (overtime count is
// unknowable from static config).
type DynamicKind string

const (
	// DynamicNone means the window's period list is static.
	DynamicNone DynamicKind = ""
	// DynamicFullGame covers every period present, regulation included.
	DynamicFullGame DynamicKind = "full_game"
	// DynamicOvertime covers every period beyond regulation.
	DynamicOvertime DynamicKind = "overtime"
)

// PeriodRule maps one window to its underlying periods, either as a
// static list or via a dynamic discovery rule.
type PeriodRule struct {
	Static  []int       `mapstructure:"static"`
	Dynamic DynamicKind `mapstructure:"dynamic"`
}

// Profile is the full static configuration for one sport.
type Profile struct {
	SportKey          string                    `mapstructure:"sport_key"`
	DisplayName       string                    `mapstructure:"display_name"`
	RegulationPeriods int                       `mapstructure:"regulation_periods"`
	Windows           map[Window]PeriodRule     `mapstructure:"windows"`
	Metrics           map[string]ExtractionRule `mapstructure:"metrics"`

	// OvertimeFallback is the static period range assumed for the
	// overtime window when the snapshot carries no discoverable period
	// data at all.
	OvertimeFallback []int `mapstructure:"overtime_fallback"`
}

// WindowRule returns the period rule for a window.
func (p *Profile) WindowRule(w Window) (PeriodRule, bool) {
	r, ok := p.Windows[w]
	return r, ok
}

// Metric returns the extraction rule for a metric name.
func (p *Profile) Metric(name string) (ExtractionRule, bool) {
	r, ok := p.Metrics[name]
	return r, ok
}
