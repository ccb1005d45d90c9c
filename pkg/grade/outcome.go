package grade

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oddslab/gradebook/pkg/sport"
)

// Outcome is the settlement verdict for a graded bet.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	// OutcomePush is a graded tie; stake returned.
	OutcomePush Outcome = "push"
	// OutcomeVoid means the bet matured but a required value was
	// unextractable. Accounted like a push, distinct in cause.
	OutcomeVoid Outcome = "void"
)

// AuditValue records one operand as used in grading.
type AuditValue struct {
	Subject   Participant     `json:"subject"`
	Raw       decimal.Decimal `json:"raw"`
	Adjusted  decimal.Decimal `json:"adjusted"`
	Available bool            `json:"available"`
}

// Audit is the auditable record of the values a resolution used.
type Audit struct {
	Values []AuditValue     `json:"values,omitempty"`
	Line   *decimal.Decimal `json:"line,omitempty"`
	Spread *Spread          `json:"spread,omitempty"`
	Note   string           `json:"note,omitempty"`
}

// statCountThreshold is the per-stat bar for double/triple-doubles.
var statCountThreshold = decimal.NewFromInt(10)

// resolveOutcome grades the bet's terms against extracted values.
// Returns the outcome, the window the result is labeled with, and the
// audit snapshot. Unavailable operands grade as void here; only
// configuration problems surface as errors.
func resolveOutcome(terms Terms, x *extractor) (Outcome, sport.Window, Audit, error) {
	switch t := terms.(type) {
	case Comparison:
		return resolveComparison(t, x)
	case Threshold:
		return resolveThreshold(t, x)
	case EventBet:
		return resolveEvent(t, x)
	default:
		return "", "", Audit{}, &UnsupportedError{Reason: fmt.Sprintf("bet shape %T", terms)}
	}
}

func resolveComparison(t Comparison, x *extractor) (Outcome, sport.Window, Audit, error) {
	audit := Audit{Spread: t.Spread}

	left, err := x.value(t.Left)
	if err != nil && err != errUnavailable {
		return "", "", Audit{}, err
	}
	leftOK := err == nil

	right, err := x.value(t.Right)
	if err != nil && err != errUnavailable {
		return "", "", Audit{}, err
	}
	rightOK := err == nil

	adjusted := left
	if leftOK && t.Spread != nil {
		adjusted = t.Spread.Apply(left)
	}
	audit.Values = []AuditValue{
		{Subject: t.Left, Raw: left, Adjusted: adjusted, Available: leftOK},
		{Subject: t.Right, Raw: right, Adjusted: right, Available: rightOK},
	}

	if !leftOK || !rightOK {
		audit.Note = "operand unavailable"
		return OutcomeVoid, t.Left.Window, audit, nil
	}

	switch t.Op {
	case OpGreaterThan:
		switch adjusted.Cmp(right) {
		case 1:
			return OutcomeWin, t.Left.Window, audit, nil
		case -1:
			return OutcomeLoss, t.Left.Window, audit, nil
		default:
			return OutcomePush, t.Left.Window, audit, nil
		}
	case OpAtLeast:
		// No push branch: a post-spread tie grades as a loss. See the
		// CompareOp docs for the inherited asymmetry with OpGreaterThan.
		if adjusted.GreaterThan(right) {
			return OutcomeWin, t.Left.Window, audit, nil
		}
		return OutcomeLoss, t.Left.Window, audit, nil
	default:
		return "", "", Audit{}, &UnsupportedError{Reason: fmt.Sprintf("comparison operator %q", t.Op)}
	}
}

func resolveThreshold(t Threshold, x *extractor) (Outcome, sport.Window, Audit, error) {
	line := t.Line
	audit := Audit{Line: &line}

	v, err := x.value(t.Subject)
	if err != nil && err != errUnavailable {
		return "", "", Audit{}, err
	}
	ok := err == nil
	audit.Values = []AuditValue{{Subject: t.Subject, Raw: v, Adjusted: v, Available: ok}}

	if !ok {
		audit.Note = "operand unavailable"
		return OutcomeVoid, t.Subject.Window, audit, nil
	}

	cmp := v.Cmp(t.Line)
	if cmp == 0 {
		// Exactly on the line is always a push, for both directions.
		return OutcomePush, t.Subject.Window, audit, nil
	}

	switch t.Dir {
	case DirOver:
		if cmp > 0 {
			return OutcomeWin, t.Subject.Window, audit, nil
		}
		return OutcomeLoss, t.Subject.Window, audit, nil
	case DirUnder:
		if cmp < 0 {
			return OutcomeWin, t.Subject.Window, audit, nil
		}
		return OutcomeLoss, t.Subject.Window, audit, nil
	default:
		return "", "", Audit{}, &UnsupportedError{Reason: fmt.Sprintf("threshold direction %q", t.Dir)}
	}
}

// eventStatMetrics are the stats counted toward double/triple-doubles.
var eventStatMetrics = []string{"points", "rebounds", "assists"}

func resolveEvent(t EventBet, x *extractor) (Outcome, sport.Window, Audit, error) {
	var need int
	switch t.Event {
	case EventDoubleDouble:
		need = 2
	case EventTripleDouble:
		need = 3
	default:
		// Unimplemented event types void transparently rather than
		// silently grading; the table above is the extension point.
		audit := Audit{Note: fmt.Sprintf("event type %q not implemented", t.Event)}
		return OutcomeVoid, t.Subject.Window, audit, nil
	}

	audit := Audit{}
	tens := 0
	for _, metric := range eventStatMetrics {
		p := t.Subject
		p.Metric = metric
		v, err := x.value(p)
		if err != nil && err != errUnavailable {
			return "", "", Audit{}, err
		}
		ok := err == nil
		audit.Values = append(audit.Values, AuditValue{Subject: p, Raw: v, Adjusted: v, Available: ok})
		if !ok {
			audit.Note = fmt.Sprintf("%s unavailable", metric)
			return OutcomeVoid, t.Subject.Window, audit, nil
		}
		if v.GreaterThanOrEqual(statCountThreshold) {
			tens++
		}
	}

	if tens >= need {
		return OutcomeWin, t.Subject.Window, audit, nil
	}
	return OutcomeLoss, t.Subject.Window, audit, nil
}
