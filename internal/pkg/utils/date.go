package utils

import "time"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// DayKey truncates t to midnight of its calendar day in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a day key by n calendar days, staying on midnight across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc).Equal(DayKey(b, loc))
}

// FormatDay renders a day key as YYYY-MM-DD.
func FormatDay(day time.Time) string {
	return day.Format(DateLayout)
}

// ParseDay parses YYYY-MM-DD as local midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatTimestamp renders t in loc as YYYY-MM-DD HH:mm:ss, or "" for nil.
func FormatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(DateTimeLayout)
}

// TimeOfDay returns the local wall-clock time of t as a duration since 00:00.
// On DST transition days this differs from the elapsed time since midnight.
func TimeOfDay(t time.Time, loc *time.Location) time.Duration {
	h, m, sec := t.In(loc).Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
}
