package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock clockwork.Clock
	weeks *utils.WeekResolver
	loc   *time.Location
}

func NewAttendanceService(repo attendance.AttendanceRepository, clock clockwork.Clock, weeks *utils.WeekResolver) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		clock:                clock,
		weeks:                weeks,
		loc:                  weeks.Location(),
	}
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:       a.ID,
		UserID:   a.UserID,
		Day:      utils.FormatDay(a.Day),
		CheckIn:  s.local(a.CheckIn),
		CheckOut: s.local(a.CheckOut),
		Status:   a.Status(),
	}
	if a.User != nil {
		resp.User = &attendance.UserResponse{
			ID:    a.User.ID,
			Name:  a.User.Name,
			Email: a.User.Email,
		}
	}
	return resp
}

func (s *AttendanceServiceImpl) local(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	l := t.In(s.loc)
	return &l
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	if userID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrUserIDRequired
	}

	now := s.clock.Now()
	day := utils.DayKey(now, s.loc)

	existing, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	record, err := s.AttendanceRepository.CheckIn(ctx, id.String(), userID, day, now)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.Info("User checked in", "user_id", userID, "day", utils.FormatDay(day), "check_in", now)
	return s.toResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	if userID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrUserIDRequired
	}

	now := s.clock.Now()
	day := utils.DayKey(now, s.loc)

	existing, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if err := checkOutAllowed(existing, now); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.CheckOut(ctx, userID, day, now)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			// Lost a race with another check-out; report what the row looks like now.
			current, getErr := s.AttendanceRepository.GetByUserAndDay(ctx, userID, day)
			if getErr != nil {
				return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", getErr)
			}
			if current != nil && current.CheckOut != nil {
				return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
			}
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		if errors.Is(err, attendance.ErrCheckOutBeforeCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	d, _ := record.Duration()
	slog.Info("User checked out", "user_id", userID, "day", utils.FormatDay(day), "worked", d.String())
	return s.toResponse(record), nil
}

func checkOutAllowed(existing *attendance.Attendance, now time.Time) error {
	switch {
	case existing == nil || existing.CheckIn == nil:
		return attendance.ErrNotCheckedIn
	case existing.CheckOut != nil:
		return attendance.ErrAlreadyCheckedOut
	case !now.After(*existing.CheckIn):
		return attendance.ErrCheckOutBeforeCheckIn
	}
	return nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	if userID == "" {
		return attendance.TodayResponse{}, attendance.ErrUserIDRequired
	}

	day := utils.DayKey(s.clock.Now(), s.loc)
	existing, err := s.AttendanceRepository.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{
		Day:    utils.FormatDay(day),
		Status: existing.Status(),
	}
	if existing != nil {
		resp.CheckIn = s.local(existing.CheckIn)
		resp.CheckOut = s.local(existing.CheckOut)
	}
	return resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if userID == "" {
		return attendance.ListAttendanceResponse{}, attendance.ErrUserIDRequired
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	return s.toList(records, filter.Page, filter.Limit, total), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AdminFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Explicit bounds win over a week offset.
	if !filter.HasDateRange() && filter.WeekOffset != nil {
		week := s.weeks.Resolve(*filter.WeekOffset)
		from, to := utils.FormatDay(week.Start), utils.FormatDay(week.End)
		filter.From, filter.To = &from, &to
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return s.toList(records, filter.Page, filter.Limit, total), nil
}

func (s *AttendanceServiceImpl) toList(records []attendance.Attendance, page, limit int, total int64) attendance.ListAttendanceResponse {
	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		items = append(items, s.toResponse(r))
	}
	return attendance.ListAttendanceResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	}
}
