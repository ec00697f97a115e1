package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

var (
	alice = employee.Employee{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: employee.RoleEmployee}
	bob   = employee.Employee{ID: "u2", Name: "Bob, Jr.", Email: "bob@example.com", Role: employee.RoleEmployee}
	carol = employee.Employee{ID: "u3", Name: "Carol", Email: "carol@example.com", Role: employee.RoleEmployee}
)

func d(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func at(day, hour, minute int) *time.Time {
	t := time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func record(e employee.Employee, day int, in, out *time.Time) attendance.Attendance {
	return attendance.Attendance{
		ID:       fmt.Sprintf("%s-%d", e.ID, day),
		UserID:   e.ID,
		Day:      d(day),
		CheckIn:  in,
		CheckOut: out,
		User:     &attendance.UserRef{ID: e.ID, Name: e.Name, Email: e.Email},
	}
}

func fixture() Report {
	week := utils.WeekRange{Start: d(8), End: d(14)}
	records := []attendance.Attendance{
		record(bob, 9, at(9, 8, 55), at(9, 17, 0)),
		record(alice, 10, at(10, 9, 5), at(10, 17, 30)),
		record(alice, 8, at(8, 8, 30), nil),
		record(carol, 12, at(12, 9, 0), at(12, 18, 0)),
		record(bob, 8, at(8, 10, 0), nil),
		// outside the week
		record(carol, 15, at(15, 9, 0), nil),
	}

	var days []report.DailyInsight
	for _, day := range week.Days() {
		days = append(days, report.DailyInsight{
			Day:     day,
			Present: []employee.Employee{alice},
			Absent:  []employee.Employee{bob, carol},
		})
	}
	return Report{Week: week, Records: records, Days: days, Location: time.UTC}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, fixture()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// header + 5 in-range records
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"User ID", "Name", "Email", "Day", "Check In", "Check Out"}, rows[0])
	assert.Equal(t, []string{"u1", "Alice", "alice@example.com", "2024-01-08", "2024-01-08 08:30:00", ""}, rows[1])
	assert.Equal(t, "2024-01-10", rows[2][3])
	assert.Equal(t, []string{"u2", "Bob, Jr.", "bob@example.com", "2024-01-08", "2024-01-08 10:00:00", ""}, rows[3])
	assert.Equal(t, "2024-01-09 17:00:00", rows[4][5])
	assert.Equal(t, "u3", rows[5][0])

	assert.Contains(t, buf.String(), `"Bob, Jr."`)
	assert.Equal(t, 6, strings.Count(buf.String(), "\n"))
}

func TestRenderCSV_HeaderOnlyWhenNoRecords(t *testing.T) {
	r := fixture()
	r.Records = nil

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, r))
	assert.Equal(t, "User ID,Name,Email,Day,Check In,Check Out\n", buf.String())
}

func TestRenderCSV_UsesConfiguredZone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	r := fixture()
	r.Location = loc

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, r))
	assert.Contains(t, buf.String(), "2024-01-08 15:30:00")
}

func TestRenderPDF_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, RenderPDF(&first, fixture()))
	require.NoError(t, RenderPDF(&second, fixture()))

	assert.True(t, bytes.HasPrefix(first.Bytes(), []byte("%PDF-")))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRenderPDF_OneSectionPerDay(t *testing.T) {
	r := fixture()
	r.Week.End = d(10)
	r.Days = r.Days[:3]

	l := newPDFLayout(r)
	require.NoError(t, l.build(r))
	assert.Equal(t, []string{
		"Monday, 2024-01-08",
		"Tuesday, 2024-01-09",
		"Wednesday, 2024-01-10",
	}, l.headings)
	assert.Equal(t, 1, l.pdf.PageCount())
}

func TestRenderPDF_PaginatesLongRosters(t *testing.T) {
	r := fixture()
	var absent []employee.Employee
	for i := 0; i < 120; i++ {
		absent = append(absent, employee.Employee{
			ID:    fmt.Sprintf("e%03d", i),
			Name:  fmt.Sprintf("Employee %03d with a rather long display name that overflows", i),
			Email: fmt.Sprintf("employee%03d@example.com", i),
		})
	}
	for i := range r.Days {
		r.Days[i].Present = nil
		r.Days[i].Absent = absent
	}

	l := newPDFLayout(r)
	require.NoError(t, l.build(r))
	assert.Greater(t, l.pdf.PageCount(), 7)
	assert.Len(t, l.headings, 7)
}

func TestPeriodLine(t *testing.T) {
	w := utils.WeekRange{
		Start: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Period: 2024-01-08 — 2024-01-14", periodLine(w))
}

func TestPageCursor_Ensure(t *testing.T) {
	l := newPDFLayout(fixture())
	l.pdf.AddPage()

	l.pdf.SetY(l.cursor.bottom - pdfRowHeight*2)
	l.cursor.ensure(2)
	assert.Equal(t, 1, l.pdf.PageNo())

	l.cursor.ensure(3)
	assert.Equal(t, 2, l.pdf.PageNo())
	assert.InDelta(t, pdfMargin, l.pdf.GetY(), 0.01)
}

func TestPDFLayout_Fit(t *testing.T) {
	l := newPDFLayout(fixture())
	l.pdf.AddPage()
	l.pdf.SetFont("Helvetica", "", 10)

	assert.Equal(t, "Alice", l.fit("Alice", pdfNameWidth))

	long := strings.Repeat("Bartholomew ", 10)
	got := l.fit(long, pdfNameWidth)
	assert.LessOrEqual(t, l.pdf.GetStringWidth(got), pdfNameWidth-pdfCellPad)
	assert.Less(t, len(got), len(long))
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderXLSX(&buf, fixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "User ID", rows[0][0])
	assert.Equal(t, "Alice", rows[1][1])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 8)
	assert.Equal(t, []string{"2024-01-08", "Monday", "1", "2", "0"}, summary[1])
}
