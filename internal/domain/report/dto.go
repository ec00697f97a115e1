package report

import (
	"time"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
	"github.com/timenest/timenest-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

const (
	MinWeekOffset = -520
	MaxWeekOffset = 520

	ReportBaseName = "attendance-week"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", ErrInvalidFormat
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func (f Format) FileName() string {
	return ReportBaseName + "." + string(f)
}

// ========================================
// WEEKLY REPORT EXPORT
// ========================================

type ReportRequest struct {
	WeekOffset int    `query:"weekOffset" validate:"gte=-520,lte=520"`
	Format     Format `query:"format" validate:"omitempty,oneof=csv pdf xlsx"`
}

func (r *ReportRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	if r.Format == "" {
		r.Format = FormatCSV
	}
	return nil
}

// ReportFile is a fully rendered export.
type ReportFile struct {
	Content     []byte
	ContentType string
	FileName    string
}

// ========================================
// AGGREGATION
// ========================================

// DailyInsight is the present/absent/late partition of the roster for one day.
type DailyInsight struct {
	Day          time.Time
	Present      []employee.Employee
	Absent       []employee.Employee
	LateCheckIns []LateCheckIn
}

type LateCheckIn struct {
	Employee employee.Employee
	CheckIn  time.Time
}

// ========================================
// INSIGHTS RESPONSES
// ========================================

type RangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewRangeResponse(w utils.WeekRange) RangeResponse {
	return RangeResponse{Start: utils.FormatDay(w.Start), End: utils.FormatDay(w.End)}
}

type LateCheckInResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	CheckIn time.Time `json:"checkIn"`
}

type DailyInsightResponse struct {
	Day          string                `json:"day"`
	Weekday      string                `json:"weekday"`
	PresentCount int                   `json:"presentCount"`
	AbsentCount  int                   `json:"absentCount"`
	Present      []employee.Employee   `json:"present"`
	Absent       []employee.Employee   `json:"absent"`
	LateCheckIns []LateCheckInResponse `json:"lateCheckIns"`
}

type WeeklyInsights struct {
	Range RangeResponse          `json:"range"`
	Days  []DailyInsightResponse `json:"days"`
}

type TodaySummary struct {
	TotalEmployees  int           `json:"totalEmployees"`
	Present         int           `json:"present"`
	Absent          int           `json:"absent"`
	NewJoinersToday int           `json:"newJoinersToday"`
	Range           RangeResponse `json:"range"`
}

type TodayInsights struct {
	Summary           TodaySummary          `json:"summary"`
	NewEmployeesToday []employee.Employee   `json:"newEmployeesToday"`
	PresentEmployees  []employee.Employee   `json:"presentEmployees"`
	AbsentEmployees   []employee.Employee   `json:"absentEmployees"`
	LateCheckIns      []LateCheckInResponse `json:"lateCheckIns"`
}

func NewLateCheckInResponses(late []LateCheckIn) []LateCheckInResponse {
	out := make([]LateCheckInResponse, 0, len(late))
	for _, l := range late {
		out = append(out, LateCheckInResponse{
			ID:      l.Employee.ID,
			Name:    l.Employee.Name,
			Email:   l.Employee.Email,
			CheckIn: l.CheckIn,
		})
	}
	return out
}

func NewDailyInsightResponse(d DailyInsight) DailyInsightResponse {
	return DailyInsightResponse{
		Day:          utils.FormatDay(d.Day),
		Weekday:      d.Day.Weekday().String(),
		PresentCount: len(d.Present),
		AbsentCount:  len(d.Absent),
		Present:      nonNil(d.Present),
		Absent:       nonNil(d.Absent),
		LateCheckIns: NewLateCheckInResponses(d.LateCheckIns),
	}
}

func nonNil(in []employee.Employee) []employee.Employee {
	if in == nil {
		return []employee.Employee{}
	}
	return in
}
