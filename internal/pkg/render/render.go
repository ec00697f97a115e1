// Package render turns an aggregated week into export files.
// Every renderer is a pure function of its Report: identical input yields identical bytes.
package render

import (
	"sort"
	"time"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

// Report is the input shared by all renderers.
type Report struct {
	Week     utils.WeekRange
	Records  []attendance.Attendance
	Days     []report.DailyInsight
	Location *time.Location
}

func (r Report) loc() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return r.Week.Start.Location()
}

// rows returns the in-range records ordered by user id, then day.
func (r Report) rows() []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(r.Records))
	for _, rec := range r.Records {
		if r.Week.Contains(rec.Day) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

var tableHeader = []string{"User ID", "Name", "Email", "Day", "Check In", "Check Out"}

func (r Report) tableRow(rec attendance.Attendance) []string {
	var name, email string
	if rec.User != nil {
		name, email = rec.User.Name, rec.User.Email
	}
	return []string{
		rec.UserID,
		name,
		email,
		utils.FormatDay(rec.Day),
		utils.FormatTimestamp(rec.CheckIn, r.loc()),
		utils.FormatTimestamp(rec.CheckOut, r.loc()),
	}
}
