package grade

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// errUnavailable is the extractor's internal signal that a value could
// not be produced from the snapshot. It never escapes the resolver;
// bets over unavailable values grade as void.
var errUnavailable = errors.New("stat unavailable")

// NotReadyError means the snapshot does not yet contain enough finished
// play to grade the requested window. The caller should retry once more
// of the contest has elapsed.
type NotReadyError struct {
	Reason string
}

func (e *NotReadyError) Error() string {
	return "not yet resolvable: " + e.Reason
}

// UnsupportedError marks a bet shape the resolver does not implement.
// Kept distinct from void so coverage gaps are visible instead of being
// mistaken for data problems.
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string {
	return "unsupported bet: " + e.Reason
}

// ComputationError wraps an unexpected failure (malformed configuration,
// missing strategy, panic) with bet context.
type ComputationError struct {
	BetID    uuid.UUID
	SportKey string
	Err      error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("resolving bet %s (%s): %v", e.BetID, e.SportKey, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// IsNotReady reports whether err is a NotReadyError.
func IsNotReady(err error) bool {
	var nr *NotReadyError
	return errors.As(err, &nr)
}

// IsUnsupported reports whether err is an UnsupportedError.
func IsUnsupported(err error) bool {
	var u *UnsupportedError
	return errors.As(err, &u)
}
