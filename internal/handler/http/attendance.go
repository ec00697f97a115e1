package http

import (
	"net/http"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/handler/http/response"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn handles POST /attendance/checkin
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in", result)
}

// CheckOut handles POST /attendance/checkout
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", result)
}

// GetToday handles GET /attendance/today
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetHistory handles GET /attendance/history
func (h *attendanceHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := newQueryParams(r)
	filter := attendance.HistoryFilter{
		From:  q.String("from"),
		To:    q.String("to"),
		Page:  q.IntOr("page", 0),
		Limit: q.IntOr("limit", 0),
	}
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetHistory(r.Context(), claims.UserID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, result.Items, result.Page, result.Limit, result.Total)
}

// List handles GET /attendance/admin/records
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := attendance.AdminFilter{
		UserID:     q.String("userId"),
		From:       q.String("from"),
		To:         q.String("to"),
		WeekOffset: q.Int("weekOffset"),
		Page:       q.IntOr("page", 0),
		Limit:      q.IntOr("limit", 0),
	}
	if err := q.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, result.Items, result.Page, result.Limit, result.Total)
}
