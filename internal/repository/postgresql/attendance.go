package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/pkg/database"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

const attendanceColumns = `id, user_id, day, check_in, check_out, created_at, updated_at`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a store whose day keys are interpreted in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceRepository{db: db, loc: loc}
}

// localDay reattaches a scanned DATE to the configured zone.
func (a *attendanceRepository) localDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc)
}

func (a *attendanceRepository) scanRecord(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Day, &att.CheckIn, &att.CheckOut, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Day = a.localDay(att.Day)
	return att, nil
}

func (a *attendanceRepository) scanJoined(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var att attendance.Attendance
		user := attendance.UserRef{}
		if err := rows.Scan(
			&att.ID, &att.UserID, &att.Day, &att.CheckIn, &att.CheckOut, &att.CreatedAt, &att.UpdatedAt,
			&user.Name, &user.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		user.ID = att.UserID
		att.User = &user
		att.Day = a.localDay(att.Day)
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// GetByUserAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND day = $2::date
		LIMIT 1
	`

	att, err := a.scanRecord(q.QueryRow(ctx, query, userID, utils.FormatDay(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for user %s on %s: %w", userID, utils.FormatDay(day), err)
	}
	return &att, nil
}

// CheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, id string, userID string, day time.Time, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// The WHERE on the conflict branch makes a second check-in a no-op that returns no row.
	query := `
		INSERT INTO attendances (id, user_id, day, check_in, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $4, $4)
		ON CONFLICT (user_id, day) DO UPDATE
		SET check_in = EXCLUDED.check_in, updated_at = EXCLUDED.updated_at
		WHERE attendances.check_in IS NULL
		RETURNING ` + attendanceColumns

	att, err := a.scanRecord(q.QueryRow(ctx, query, id, userID, utils.FormatDay(day), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check in user %s: %w", userID, err)
	}
	return att, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, userID string, day time.Time, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out = $3, updated_at = $3
		WHERE user_id = $1 AND day = $2::date
		  AND check_in IS NOT NULL AND check_out IS NULL
		RETURNING ` + attendanceColumns

	att, err := a.scanRecord(q.QueryRow(ctx, query, userID, utils.FormatDay(day), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		if pgErrorCode(err) == pgCheckViolation {
			return attendance.Attendance{}, attendance.ErrCheckOutBeforeCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out user %s: %w", userID, err)
	}
	return att, nil
}

func dateBounds(column string, from, to *string) squirrel.And {
	where := squirrel.And{}
	if from != nil && *from != "" {
		where = append(where, squirrel.Expr(column+" >= ?::date", *from))
	}
	if to != nil && *to != "" {
		where = append(where, squirrel.Expr(column+" <= ?::date", *to))
	}
	return where
}

// page runs the count and page queries together; inside a transaction they run in sequence.
func (a *attendanceRepository) page(ctx context.Context, count, list squirrel.SelectBuilder, scan func(pgx.Rows) ([]attendance.Attendance, error)) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	listSQL, listArgs, err := list.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	var (
		total   int64
		records []attendance.Attendance
	)
	runCount := func(ctx context.Context) error {
		if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}
		return nil
	}
	runList := func(ctx context.Context) error {
		rows, err := q.Query(ctx, listSQL, listArgs...)
		if err != nil {
			return fmt.Errorf("failed to list attendances: %w", err)
		}
		records, err = scan(rows)
		return err
	}

	if inTransaction(ctx) {
		if err := runCount(ctx); err != nil {
			return nil, 0, err
		}
		if err := runList(ctx); err != nil {
			return nil, 0, err
		}
		return records, total, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runCount(gctx) })
	g.Go(func() error { return runList(gctx) })
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	where := squirrel.And{squirrel.Eq{"user_id": userID}}
	where = append(where, dateBounds("day", filter.From, filter.To)...)

	count := psql.Select("COUNT(*)").From("attendances").Where(where)
	list := psql.Select(attendanceColumns).
		From("attendances").
		Where(where).
		OrderBy("day DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	return a.page(ctx, count, list, func(rows pgx.Rows) ([]attendance.Attendance, error) {
		defer rows.Close()
		records := make([]attendance.Attendance, 0)
		for rows.Next() {
			att, err := a.scanRecord(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan attendance: %w", err)
			}
			records = append(records, att)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate attendances: %w", err)
		}
		return records, nil
	})
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AdminFilter) ([]attendance.Attendance, int64, error) {
	where := squirrel.And{}
	if filter.UserID != nil && *filter.UserID != "" {
		where = append(where, squirrel.Eq{"a.user_id": *filter.UserID})
	}
	where = append(where, dateBounds("a.day", filter.From, filter.To)...)

	count := psql.Select("COUNT(*)").From("attendances a").Where(where)
	list := psql.Select(
		"a.id", "a.user_id", "a.day", "a.check_in", "a.check_out", "a.created_at", "a.updated_at",
		"u.name", "u.email",
	).
		From("attendances a").
		Join("users u ON u.id = a.user_id").
		Where(where).
		OrderBy("a.day DESC", "a.user_id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	return a.page(ctx, count, list, a.scanJoined)
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query, args, err := psql.Select(
		"a.id", "a.user_id", "a.day", "a.check_in", "a.check_out", "a.created_at", "a.updated_at",
		"u.name", "u.email",
	).
		From("attendances a").
		Join("users u ON u.id = a.user_id").
		Where(squirrel.Expr("a.day BETWEEN ?::date AND ?::date", utils.FormatDay(from), utils.FormatDay(to))).
		OrderBy("a.user_id ASC", "a.day ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build range query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances between %s and %s: %w", utils.FormatDay(from), utils.FormatDay(to), err)
	}
	return a.scanJoined(rows)
}
