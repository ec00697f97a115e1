package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the durable store for attendance records.
// Implementations must enforce one record per (userID, day).
type AttendanceRepository interface {
	// GetByUserAndDay returns nil, nil when no record exists.
	GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*Attendance, error)

	// CheckIn creates the record for (userID, day) or fills check_in on an
	// existing shell record. It returns ErrAlreadyCheckedIn if check_in is
	// already set, including when a concurrent caller won the race.
	CheckIn(ctx context.Context, id string, userID string, day time.Time, at time.Time) (Attendance, error)

	// CheckOut sets check_out on an open record. It returns
	// ErrAttendanceNotFound when no open record matched.
	CheckOut(ctx context.Context, userID string, day time.Time, at time.Time) (Attendance, error)

	// ListByUser returns a page of a user's records, newest day first.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// List returns a page of all records joined with the user projection.
	List(ctx context.Context, filter AdminFilter) ([]Attendance, int64, error)

	// ListByRange returns every record with from <= day <= to, joined with
	// the user projection, ordered by user id then day.
	ListByRange(ctx context.Context, from, to time.Time) ([]Attendance, error)
}
