package attendance

import "errors"

// TransitionError reports a check-in/check-out ordering violation.
// These are user-correctable and surface as 400.
type TransitionError struct {
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      error = &TransitionError{Message: "Already checked in today"}
	ErrNotCheckedIn          error = &TransitionError{Message: "You have not checked in today"}
	ErrAlreadyCheckedOut     error = &TransitionError{Message: "Already checked out today"}
	ErrCheckOutBeforeCheckIn error = &TransitionError{Message: "Check-out time must be after check-in time"}

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUserIDRequired     = errors.New("user id is required")
)
