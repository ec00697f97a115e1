package report

import (
	"context"

	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

// ReportService aggregates a week of attendance and renders it for export
type ReportService interface {
	// GenerateWeeklyReport renders a single file for the requested week and format
	GenerateWeeklyReport(ctx context.Context, req ReportRequest) (ReportFile, error)

	// GenerateWeeklyFiles aggregates once and renders one file per format
	GenerateWeeklyFiles(ctx context.Context, weekOffset int, formats ...Format) (utils.WeekRange, []ReportFile, error)

	// GetWeeklyInsights returns the per-day present/absent/late breakdown
	GetWeeklyInsights(ctx context.Context, weekOffset int) (WeeklyInsights, error)

	// GetTodayInsights summarizes today's attendance
	GetTodayInsights(ctx context.Context) (TodayInsights, error)
}
