package utils

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestWeekResolver_Resolve(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 1, 17, 10, 30, 0, 0, time.UTC)
	r := NewWeekResolver(clockwork.NewFakeClockAt(now), time.UTC)

	tests := []struct {
		name      string
		offset    int
		wantStart string
		wantEnd   string
	}{
		{"current week capped at today", 0, "2024-01-15", "2024-01-17"},
		{"previous week full", -1, "2024-01-08", "2024-01-14"},
		{"two weeks back", -2, "2024-01-01", "2024-01-07"},
		{"next week not capped", 1, "2024-01-22", "2024-01-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.offset)
			assert.Equal(t, tt.wantStart, FormatDay(got.Start))
			assert.Equal(t, tt.wantEnd, FormatDay(got.End))
			assert.Equal(t, time.Monday, got.Start.Weekday())
		})
	}
}

func TestWeekResolver_CurrentWeekNeverPastToday(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		now := start.AddDate(0, 0, i)
		r := NewWeekResolver(clockwork.NewFakeClockAt(now), time.UTC)
		got := r.Resolve(0)
		assert.False(t, got.End.After(r.Today()), "end after today on %s", now.Weekday())
		assert.Len(t, got.Days(), i+1)
	}
}

func TestWeekResolver_SundayBelongsToPrecedingMonday(t *testing.T) {
	now := time.Date(2024, 1, 21, 23, 59, 0, 0, time.UTC)
	r := NewWeekResolver(clockwork.NewFakeClockAt(now), time.UTC)

	got := r.Resolve(0)
	assert.Equal(t, "2024-01-15", FormatDay(got.Start))
	assert.Equal(t, "2024-01-21", FormatDay(got.End))

	prev := r.Resolve(-1)
	assert.Len(t, prev.Days(), 7)
	assert.Equal(t, time.Sunday, prev.End.Weekday())
}

func TestWeekResolver_UsesConfiguredZone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// Sunday 20:00 UTC is already Monday in UTC+7.
	now := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)
	r := NewWeekResolver(clockwork.NewFakeClockAt(now), loc)

	got := r.Resolve(0)
	assert.Equal(t, "2024-01-15", FormatDay(got.Start))
	assert.Equal(t, "2024-01-15", FormatDay(got.End))
}

func TestWeekRange_Contains(t *testing.T) {
	w := WeekRange{Start: day(t, "2024-01-08"), End: day(t, "2024-01-14")}

	assert.True(t, w.Contains(day(t, "2024-01-08")))
	assert.True(t, w.Contains(day(t, "2024-01-14").Add(23*time.Hour)))
	assert.False(t, w.Contains(day(t, "2024-01-15")))
	assert.False(t, w.Contains(day(t, "2024-01-07")))
	assert.Equal(t, "2024-01-08_2024-01-14", w.String())
}

func TestDayKeyAndTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2024, 1, 15, 2, 5, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), DayKey(ts, loc))
	assert.Equal(t, 9*time.Hour+5*time.Minute, TimeOfDay(ts, loc))
	assert.Equal(t, "2024-01-15 09:05:00", FormatTimestamp(&ts, loc))
	assert.Equal(t, "", FormatTimestamp(nil, loc))
}

func TestTimeOfDay_DSTTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks jump 02:00 -> 03:00 on 2024-03-10 and 02:00 -> 01:00 on 2024-11-03
	spring := time.Date(2024, 3, 10, 9, 5, 0, 0, ny)
	fall := time.Date(2024, 11, 3, 8, 30, 0, 0, ny)

	assert.Equal(t, 9*time.Hour+5*time.Minute, TimeOfDay(spring, ny))
	assert.Equal(t, 8*time.Hour+30*time.Minute, TimeOfDay(fall, ny))
	assert.Equal(t, 9*time.Hour+5*time.Minute, TimeOfDay(spring.UTC(), ny))
}
