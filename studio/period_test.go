package studio_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

func TestPeriodFilter_ResolveCalendarAligned(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, rome)

	tests := []struct {
		filter studio.PeriodFilter
		start  time.Time
		end    time.Time
	}{
		{studio.PeriodThisMonth, time.Date(2025, 1, 1, 0, 0, 0, 0, rome), time.Date(2025, 2, 1, 0, 0, 0, 0, rome)},
		{studio.PeriodLastMonth, time.Date(2024, 12, 1, 0, 0, 0, 0, rome), time.Date(2025, 1, 1, 0, 0, 0, 0, rome)},
		{studio.PeriodThisYear, time.Date(2025, 1, 1, 0, 0, 0, 0, rome), time.Date(2026, 1, 1, 0, 0, 0, 0, rome)},
		{studio.PeriodLastYear, time.Date(2024, 1, 1, 0, 0, 0, 0, rome), time.Date(2025, 1, 1, 0, 0, 0, 0, rome)},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			p := tt.filter.Resolve(now, rome)

			assert.False(t, p.Unbounded)
			assert.True(t, p.Start.Equal(tt.start), "start %s", p.Start)
			assert.True(t, p.End.Equal(tt.end), "end %s", p.End)
		})
	}
}

func TestPeriodFilter_AllTimeContainsEverything(t *testing.T) {
	p := studio.PeriodAllTime.Resolve(day, time.UTC)

	assert.True(t, p.Unbounded)
	assert.True(t, p.Contains(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriod_HalfOpen(t *testing.T) {
	p := studio.MonthPeriod(2025, time.March, time.UTC)

	assert.True(t, p.Contains(p.Start))
	assert.False(t, p.Contains(p.End))
	assert.True(t, p.Contains(p.End.Add(-time.Nanosecond)))
}

func TestPeriod_LocationDecidesMonth(t *testing.T) {
	// 23:30 UTC on Jan 31 is already February in Rome.
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	instant := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)

	assert.True(t, studio.MonthPeriod(2025, time.January, time.UTC).Contains(instant))
	assert.True(t, studio.MonthPeriod(2025, time.February, rome).Contains(instant))
}

func TestParsePeriodFilter(t *testing.T) {
	f, err := studio.ParsePeriodFilter("")
	require.NoError(t, err)
	assert.Equal(t, studio.PeriodAllTime, f)

	f, err = studio.ParsePeriodFilter(" This-Month ")
	require.NoError(t, err)
	assert.Equal(t, studio.PeriodThisMonth, f)

	_, err = studio.ParsePeriodFilter("last-week")
	assert.ErrorIs(t, err, studio.ErrInvalidInput)
}

func TestParseStatus_AndTransitions(t *testing.T) {
	s, err := studio.ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, studio.StatusCompleted, s)

	_, err = studio.ParseStatus("PENDING")
	assert.ErrorIs(t, err, studio.ErrInvalidInput)

	assert.True(t, studio.StatusConfirmed.CanTransition(studio.StatusCompleted))
	assert.True(t, studio.StatusConfirmed.CanTransition(studio.StatusCancelled))
	assert.True(t, studio.StatusCompleted.CanTransition(studio.StatusConfirmed))
	assert.True(t, studio.StatusCancelled.CanTransition(studio.StatusCancelled))
	assert.False(t, studio.StatusCancelled.CanTransition(studio.StatusConfirmed))
	assert.False(t, studio.StatusCancelled.CanTransition(studio.StatusCompleted))
}
