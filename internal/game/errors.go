package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction matches every *IllegalActionError via errors.Is.
var ErrIllegalAction = errors.New("illegal action")

// Reason explains why an action was rejected.
type Reason int

const (
	ReasonOutOfRange Reason = iota + 1
	ReasonOccupied
	ReasonTerminal
)

func (r Reason) String() string {
	switch r {
	case ReasonOutOfRange:
		return "out of range"
	case ReasonOccupied:
		return "not currently valid"
	case ReasonTerminal:
		return "game is over"
	default:
		return "unknown"
	}
}

// IllegalActionError is returned by ApplyAction when an action cannot be
// played against the current state.
type IllegalActionError struct {
	Variant Variant
	Action  int
	Reason  Reason
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("%s: illegal action %d: %s", e.Variant, e.Action, e.Reason)
}

// Is lets errors.Is(err, ErrIllegalAction) match.
func (e *IllegalActionError) Is(target error) bool {
	return target == ErrIllegalAction
}

// ConstructionError reports that a game could not be built, for example from
// an unknown variant or invalid board options.
type ConstructionError struct {
	Variant Variant
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: cannot construct game: %v", e.Variant, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
