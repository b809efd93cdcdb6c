package classroom

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomNotFound means no live activity exists behind the room code.
	ErrRoomNotFound = errors.New("room not found")

	// ErrAlreadySubmitted means the student already finished this quiz
	// and may not rejoin it.
	ErrAlreadySubmitted = errors.New("already submitted")
)

// ValidationError reports teacher or student input rejected before any
// store or gateway call. Code is a stable identifier used for
// localization and HTTP mapping.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input (%s): %s", e.Code, e.Reason)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
