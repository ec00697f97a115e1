package utils

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// WeekRange is an inclusive Monday-based span of local day keys.
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// Days lists every day key from Start to End, ascending.
func (w WeekRange) Days() []time.Time {
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day falls within the range.
func (w WeekRange) Contains(day time.Time) bool {
	day = DayKey(day, w.Start.Location())
	return !day.Before(w.Start) && !day.After(w.End)
}

func (w WeekRange) String() string {
	return FormatDay(w.Start) + "_" + FormatDay(w.End)
}

// WeekResolver turns a week offset into a WeekRange relative to the clock's today.
type WeekResolver struct {
	clock clockwork.Clock
	loc   *time.Location
}

func NewWeekResolver(clock clockwork.Clock, loc *time.Location) *WeekResolver {
	if loc == nil {
		loc = time.Local
	}
	return &WeekResolver{clock: clock, loc: loc}
}

// Today returns the current local day key.
func (r *WeekResolver) Today() time.Time {
	return DayKey(r.clock.Now(), r.loc)
}

func (r *WeekResolver) Location() *time.Location {
	return r.loc
}

// Resolve returns Monday..Sunday of the week offset weeks from today.
// For the current week (offset 0) End is capped at today.
func (r *WeekResolver) Resolve(offset int) WeekRange {
	today := r.Today()
	anchor := AddDays(today, 7*offset)

	// Monday = 0 .. Sunday = 6
	sinceMonday := (int(anchor.Weekday()) + 6) % 7
	start := AddDays(anchor, -sinceMonday)
	end := AddDays(start, 6)

	if offset == 0 && end.After(today) {
		end = today
	}
	return WeekRange{Start: start, End: end}
}
