package http

import (
	"net/http"

	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Weekly export as csv, pdf or xlsx
	GetWeeklyReport(w http.ResponseWriter, r *http.Request)

	// Today's present/absent/late summary
	GetTodayInsights(w http.ResponseWriter, r *http.Request)

	// Per-day breakdown of a week
	GetWeeklyInsights(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetWeeklyReport handles GET /attendance/admin/report/weekly
func (h *reportHandlerImpl) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := report.ReportRequest{
		WeekOffset: q.IntOr("weekOffset", 0),
		Format:     report.Format(r.URL.Query().Get("format")),
	}
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.GenerateWeeklyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.FileName, file.Content)
}

// GetTodayInsights handles GET /attendance/admin/insights/today.
// weekOffset is accepted for compatibility and ignored.
func (h *reportHandlerImpl) GetTodayInsights(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetTodayInsights(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetWeeklyInsights handles GET /attendance/admin/insights/weekly
func (h *reportHandlerImpl) GetWeeklyInsights(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	offset := q.IntOr("weekOffset", 0)
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetWeeklyInsights(r.Context(), offset)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
