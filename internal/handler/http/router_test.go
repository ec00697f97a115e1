package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
	"github.com/timenest/timenest-backend-go/internal/pkg/validator"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAttendanceService struct {
	checkInErr  error
	lastUserID  string
	lastHistory attendance.HistoryFilter
	lastAdmin   attendance.AdminFilter
}

func (f *fakeAttendanceService) CheckIn(_ context.Context, userID string) (attendance.AttendanceResponse, error) {
	f.lastUserID = userID
	if f.checkInErr != nil {
		return attendance.AttendanceResponse{}, f.checkInErr
	}
	in := time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)
	return attendance.AttendanceResponse{ID: "rec-1", UserID: userID, Day: "2024-01-15", CheckIn: &in, Status: attendance.StatusInProgress}, nil
}

func (f *fakeAttendanceService) CheckOut(_ context.Context, userID string) (attendance.AttendanceResponse, error) {
	f.lastUserID = userID
	return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
}

func (f *fakeAttendanceService) GetToday(_ context.Context, userID string) (attendance.TodayResponse, error) {
	f.lastUserID = userID
	return attendance.TodayResponse{Day: "2024-01-15", Status: attendance.StatusNotStarted}, nil
}

func (f *fakeAttendanceService) GetHistory(_ context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	f.lastUserID = userID
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	f.lastHistory = filter
	return attendance.ListAttendanceResponse{Items: []attendance.AttendanceResponse{}, Page: filter.Page, Limit: filter.Limit, Total: 0}, nil
}

func (f *fakeAttendanceService) ListAttendance(_ context.Context, filter attendance.AdminFilter) (attendance.ListAttendanceResponse, error) {
	f.lastAdmin = filter
	return attendance.ListAttendanceResponse{
		Items: []attendance.AttendanceResponse{{
			ID: "rec-1", UserID: "u1", Day: "2024-01-15", Status: attendance.StatusCompleted,
			User: &attendance.UserResponse{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		}},
		Page: 1, Limit: 20, Total: 1,
	}, nil
}

type fakeReportService struct {
	lastReq report.ReportRequest
	err     error
}

func (f *fakeReportService) GenerateWeeklyReport(_ context.Context, req report.ReportRequest) (report.ReportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ReportFile{}, err
	}
	f.lastReq = req
	if f.err != nil {
		return report.ReportFile{}, f.err
	}
	return report.ReportFile{
		Content:     []byte("User ID,Name,Email,Day,Check In,Check Out\n"),
		ContentType: req.Format.ContentType(),
		FileName:    req.Format.FileName(),
	}, nil
}

func (f *fakeReportService) GenerateWeeklyFiles(context.Context, int, ...report.Format) (utils.WeekRange, []report.ReportFile, error) {
	return utils.WeekRange{}, nil, nil
}

func (f *fakeReportService) GetWeeklyInsights(context.Context, int) (report.WeeklyInsights, error) {
	return report.WeeklyInsights{Range: report.RangeResponse{Start: "2024-01-08", End: "2024-01-14"}}, nil
}

func (f *fakeReportService) GetTodayInsights(context.Context) (report.TodayInsights, error) {
	return report.TodayInsights{Summary: report.TodaySummary{TotalEmployees: 3, Present: 1, Absent: 2}}, nil
}

type testServer struct {
	handler    http.Handler
	attendance *fakeAttendanceService
	reports    *fakeReportService
	jwt        jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		attendance: &fakeAttendanceService{},
		reports:    &fakeReportService{},
		jwt:        jwt.NewJWTService(handlerTestSecret, "1h"),
	}
	ts.handler = NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:5174"}, Env: "test", LogLevel: slog.LevelError},
		ts.jwt,
		NewAttendanceHandler(ts.attendance),
		NewReportHandler(ts.reports),
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, role employee.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, _, err := ts.jwt.GenerateAccessToken("0190b6b2-3f1e-7c2a-9b1d-2f4e5a6b7c8d", "user@example.com", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/attendance/checkin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, rec)["code"])
}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/attendance/checkin", employee.RoleEmployee)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Checked in", body["message"])
	record := body["record"].(map[string]interface{})
	assert.Equal(t, "IN_PROGRESS", record["status"])
	assert.Equal(t, "2024-01-15", record["day"])
	assert.Equal(t, "0190b6b2-3f1e-7c2a-9b1d-2f4e5a6b7c8d", ts.attendance.lastUserID)
}

func TestAttendanceHandler_TransitionErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.attendance.checkInErr = attendance.ErrAlreadyCheckedIn

	rec := ts.do(t, http.MethodPost, "/api/v1/attendance/checkin", employee.RoleEmployee)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Already checked in today", body["error"])
	assert.Equal(t, "ILLEGAL_STATE_TRANSITION", body["code"])

	rec = ts.do(t, http.MethodPost, "/api/v1/attendance/checkout", employee.RoleEmployee)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have not checked in today", decode(t, rec)["error"])
}

func TestAttendanceHandler_InternalError(t *testing.T) {
	ts := newTestServer(t)
	ts.attendance.checkInErr = assert.AnError

	rec := ts.do(t, http.MethodPost, "/api/v1/attendance/checkin", employee.RoleEmployee)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestAttendanceHandler_Today(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/today", employee.RoleEmployee)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "NOT_STARTED", body["status"])
	assert.Nil(t, body["checkIn"])
}

func TestAttendanceHandler_History(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/history?from=2024-01-01&to=2024-01-31&page=2", employee.RoleEmployee)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []interface{}{}, body["data"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
	assert.Equal(t, "2024-01-01", *ts.attendance.lastHistory.From)

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/history?page=abc", employee.RoleEmployee)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Contains(t, body["details"], "page")

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/history?from=2024-02-01&to=2024-01-01", employee.RoleEmployee)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/v1/attendance/admin/records",
		"/api/v1/attendance/admin/report/weekly",
		"/api/v1/attendance/admin/insights/today",
		"/api/v1/attendance/admin/insights/weekly",
	} {
		rec := ts.do(t, http.MethodGet, path, employee.RoleEmployee)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestAttendanceHandler_AdminList(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/admin/records?weekOffset=-1&userId=u1", employee.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.attendance.lastAdmin.WeekOffset)
	assert.Equal(t, -1, *ts.attendance.lastAdmin.WeekOffset)

	data := decode(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, "u1", row["userId"])
	assert.Equal(t, "Alice", row["user"].(map[string]interface{})["name"])
}

func TestReportHandler_WeeklyReport(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/admin/report/weekly?weekOffset=-2", employee.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-week.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, -2, ts.reports.lastReq.WeekOffset)

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/admin/report/weekly?format=pdf", employee.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/admin/report/weekly?format=docx", employee.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "format")

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/admin/report/weekly?weekOffset=last", employee.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandler_RenderFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.reports.err = report.ErrRenderFailed

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/admin/report/weekly?format=pdf", employee.RoleAdmin)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestReportHandler_Insights(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/admin/insights/today?weekOffset=-3", employee.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["totalEmployees"])

	rec = ts.do(t, http.MethodGet, "/api/v1/attendance/admin/insights/weekly?weekOffset=-1", employee.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	rng := decode(t, rec)["range"].(map[string]interface{})
	assert.Equal(t, "2024-01-08", rng["start"])
}

func TestQueryParams_IntegerErrors(t *testing.T) {
	q := newQueryParams(httptest.NewRequest(http.MethodGet, "/?limit=x", nil))
	q.IntOr("limit", 0)
	err := q.Err()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "limit must be an integer", verrs.ToMap()["limit"])
}
