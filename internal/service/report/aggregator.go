package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

// HireDatePolicy decides how days before an employee's creation are counted.
type HireDatePolicy string

const (
	// HireDateCount counts an employee absent on days before they were created.
	HireDateCount HireDatePolicy = "count"
	// HireDateExclude leaves an employee out of both lists before their creation day.
	HireDateExclude HireDatePolicy = "exclude"
)

func ParseHireDatePolicy(s string) (HireDatePolicy, error) {
	switch p := HireDatePolicy(s); p {
	case "", HireDateCount:
		return HireDateCount, nil
	case HireDateExclude:
		return p, nil
	default:
		return "", fmt.Errorf("unknown hire date policy %q", s)
	}
}

// Aggregator partitions a roster into present and absent per day.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	loc           *time.Location
	lateThreshold time.Duration
	policy        HireDatePolicy
}

func NewAggregator(loc *time.Location, lateThreshold time.Duration, policy HireDatePolicy) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if policy == "" {
		policy = HireDateCount
	}
	return &Aggregator{loc: loc, lateThreshold: lateThreshold, policy: policy}
}

// IsLate reports whether checkIn is strictly after the threshold on its local day.
func (a *Aggregator) IsLate(checkIn time.Time) bool {
	return utils.TimeOfDay(checkIn, a.loc) > a.lateThreshold
}

// Weekly returns one insight per day of week, ascending.
func (a *Aggregator) Weekly(week utils.WeekRange, roster []employee.Employee, records []attendance.Attendance) []report.DailyInsight {
	byDay := make(map[string][]attendance.Attendance)
	for _, r := range records {
		k := utils.FormatDay(utils.DayKey(r.Day, a.loc))
		byDay[k] = append(byDay[k], r)
	}

	days := week.Days()
	insights := make([]report.DailyInsight, 0, len(days))
	for _, day := range days {
		insights = append(insights, a.Day(day, roster, byDay[utils.FormatDay(day)]))
	}
	return insights
}

// Day partitions roster for a single day. dayRecords must all belong to day.
func (a *Aggregator) Day(day time.Time, roster []employee.Employee, dayRecords []attendance.Attendance) report.DailyInsight {
	present := presentIDs(dayRecords)

	insight := report.DailyInsight{
		Day:          day,
		Present:      make([]employee.Employee, 0),
		Absent:       make([]employee.Employee, 0),
		LateCheckIns: make([]report.LateCheckIn, 0),
	}

	byID := make(map[string]employee.Employee, len(roster))
	for _, e := range roster {
		byID[e.ID] = e
		if _, ok := present[e.ID]; ok {
			insight.Present = append(insight.Present, e)
			continue
		}
		if a.policy == HireDateExclude && !e.EmployedBy(day) {
			continue
		}
		insight.Absent = append(insight.Absent, e)
	}

	for _, r := range dayRecords {
		if r.CheckIn == nil || !a.IsLate(*r.CheckIn) {
			continue
		}
		e, ok := byID[r.UserID]
		if !ok {
			continue
		}
		insight.LateCheckIns = append(insight.LateCheckIns, report.LateCheckIn{Employee: e, CheckIn: r.CheckIn.In(a.loc)})
	}
	sort.SliceStable(insight.LateCheckIns, func(i, j int) bool {
		return insight.LateCheckIns[i].CheckIn.Before(insight.LateCheckIns[j].CheckIn)
	})

	return insight
}

// Today builds the dashboard summary for a single day.
func (a *Aggregator) Today(today time.Time, roster []employee.Employee, todayRecords []attendance.Attendance) report.TodayInsights {
	insight := a.Day(today, roster, todayRecords)

	newJoiners := make([]employee.Employee, 0)
	for _, e := range roster {
		if e.JoinedOn(today) {
			newJoiners = append(newJoiners, e)
		}
	}

	// Counts follow the roster partition; check-ins by non-roster users are ignored.
	return report.TodayInsights{
		Summary: report.TodaySummary{
			TotalEmployees:  len(roster),
			Present:         len(insight.Present),
			Absent:          len(insight.Absent),
			NewJoinersToday: len(newJoiners),
			Range:           report.RangeResponse{Start: utils.FormatDay(today), End: utils.FormatDay(today)},
		},
		NewEmployeesToday: newJoiners,
		PresentEmployees:  insight.Present,
		AbsentEmployees:   insight.Absent,
		LateCheckIns:      report.NewLateCheckInResponses(insight.LateCheckIns),
	}
}

func presentIDs(records []attendance.Attendance) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.CheckIn != nil {
			ids[r.UserID] = struct{}{}
		}
	}
	return ids
}
