package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/render"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

type renderFunc func(io.Writer, render.Report) error

var renderers = map[report.Format]renderFunc{
	report.FormatCSV:  render.RenderCSV,
	report.FormatPDF:  render.RenderPDF,
	report.FormatXLSX: render.RenderXLSX,
}

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	roster         employee.RosterProvider
	weeks          *utils.WeekResolver
	aggregator     *Aggregator
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	roster employee.RosterProvider,
	weeks *utils.WeekResolver,
	aggregator *Aggregator,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		roster:         roster,
		weeks:          weeks,
		aggregator:     aggregator,
	}
}

func validateWeekOffset(offset int) error {
	if offset < report.MinWeekOffset || offset > report.MaxWeekOffset {
		return report.ErrInvalidWeekOffset
	}
	return nil
}

// load fetches the EMPLOYEE roster and the records of week concurrently.
func (s *ReportServiceImpl) load(ctx context.Context, week utils.WeekRange) ([]employee.Employee, []attendance.Attendance, error) {
	var (
		roster  []employee.Employee
		records []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.roster.ListByRole(gCtx, employee.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByRange(gCtx, week.Start, week.End)
		if err != nil {
			return fmt.Errorf("failed to load attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return roster, records, nil
}

// GenerateWeeklyReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateWeeklyReport(ctx context.Context, req report.ReportRequest) (report.ReportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ReportFile{}, err
	}

	_, files, err := s.GenerateWeeklyFiles(ctx, req.WeekOffset, req.Format)
	if err != nil {
		return report.ReportFile{}, err
	}
	return files[0], nil
}

// GenerateWeeklyFiles implements report.ReportService.
func (s *ReportServiceImpl) GenerateWeeklyFiles(ctx context.Context, weekOffset int, formats ...report.Format) (utils.WeekRange, []report.ReportFile, error) {
	if err := validateWeekOffset(weekOffset); err != nil {
		return utils.WeekRange{}, nil, err
	}
	if len(formats) == 0 {
		formats = []report.Format{report.FormatCSV}
	}
	for _, f := range formats {
		if _, ok := renderers[f]; !ok {
			return utils.WeekRange{}, nil, report.ErrInvalidFormat
		}
	}

	week := s.weeks.Resolve(weekOffset)
	roster, records, err := s.load(ctx, week)
	if err != nil {
		return utils.WeekRange{}, nil, err
	}

	input := render.Report{
		Week:     week,
		Records:  records,
		Days:     s.aggregator.Weekly(week, roster, records),
		Location: s.weeks.Location(),
	}

	files := make([]report.ReportFile, 0, len(formats))
	for _, f := range formats {
		var buf bytes.Buffer
		if err := renderers[f](&buf, input); err != nil {
			slog.Error("Failed to render weekly report", "format", f, "week", week.String(), "error", err)
			return utils.WeekRange{}, nil, fmt.Errorf("%w: %s: %v", report.ErrRenderFailed, f, err)
		}
		files = append(files, report.ReportFile{
			Content:     buf.Bytes(),
			ContentType: f.ContentType(),
			FileName:    f.FileName(),
		})
	}

	slog.Info("Weekly report generated",
		"week", week.String(),
		"formats", formats,
		"employees", len(roster),
		"records", len(records),
	)
	return week, files, nil
}

// GetWeeklyInsights implements report.ReportService.
func (s *ReportServiceImpl) GetWeeklyInsights(ctx context.Context, weekOffset int) (report.WeeklyInsights, error) {
	if err := validateWeekOffset(weekOffset); err != nil {
		return report.WeeklyInsights{}, err
	}

	week := s.weeks.Resolve(weekOffset)
	roster, records, err := s.load(ctx, week)
	if err != nil {
		return report.WeeklyInsights{}, err
	}

	days := s.aggregator.Weekly(week, roster, records)
	resp := report.WeeklyInsights{
		Range: report.NewRangeResponse(week),
		Days:  make([]report.DailyInsightResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, report.NewDailyInsightResponse(d))
	}
	return resp, nil
}

// GetTodayInsights implements report.ReportService.
func (s *ReportServiceImpl) GetTodayInsights(ctx context.Context) (report.TodayInsights, error) {
	today := s.weeks.Today()
	roster, records, err := s.load(ctx, utils.WeekRange{Start: today, End: today})
	if err != nil {
		return report.TodayInsights{}, err
	}
	return s.aggregator.Today(today, roster, records), nil
}
