package attendance

import (
	"context"
)

// AttendanceService defines the check-in/check-out state machine
type AttendanceService interface {
	// CheckIn moves today's record from NOT_STARTED to IN_PROGRESS
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// CheckOut moves today's record from IN_PROGRESS to COMPLETED
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// GetToday returns today's record and derived status
	GetToday(ctx context.Context, userID string) (TodayResponse, error)

	// GetHistory retrieves the caller's records, newest first
	GetHistory(ctx context.Context, userID string, filter HistoryFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves all records (admin)
	ListAttendance(ctx context.Context, filter AdminFilter) (ListAttendanceResponse, error)
}
