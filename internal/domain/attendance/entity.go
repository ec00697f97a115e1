package attendance

import (
	"time"
)

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Attendance is one user's attendance for one calendar day.
// Day is always local midnight; (UserID, Day) is unique.
type Attendance struct {
	ID        string
	UserID    string
	Day       time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	User *UserRef
}

// UserRef is the directory projection attached to admin listings and exports.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

// Status derives the state machine position from the timestamps.
func (a *Attendance) Status() Status {
	if a == nil || a.CheckIn == nil {
		return StatusNotStarted
	}
	if a.CheckOut == nil {
		return StatusInProgress
	}
	return StatusCompleted
}

// Duration returns the worked time of a completed record.
func (a *Attendance) Duration() (time.Duration, bool) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0, false
	}
	return a.CheckOut.Sub(*a.CheckIn), true
}
