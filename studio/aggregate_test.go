package studio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

func on(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 14, 0, 0, 0, time.UTC)
}

// =============================================================================
// MONTHLY / YEARLY
// =============================================================================

func TestAggregateByMonth_TwelveBucketsCompletedRevenue(t *testing.T) {
	appts := []studio.Appointment{
		priced("a", studio.StatusCompleted, on(2025, time.January, 5), 100, 0, false),
		priced("b", studio.StatusConfirmed, on(2025, time.January, 20), 300, 0, false),
		priced("c", studio.StatusCancelled, on(2025, time.January, 21), 500, 0, false),
		priced("d", studio.StatusCompleted, on(2025, time.June, 1), 250, 0, false),
		priced("e", studio.StatusCompleted, on(2024, time.June, 1), 999, 0, false),
	}

	buckets := studio.AggregateByMonth(appts, 2025, time.UTC)

	require.Len(t, buckets, 12)
	assert.Equal(t, time.January, buckets[0].Month)
	assert.Equal(t, time.December, buckets[11].Month)

	assertMoney(t, 100, buckets[0].Revenue)
	assert.Equal(t, 2, buckets[0].Appointments, "confirmed counted, cancelled not")
	assertMoney(t, 250, buckets[5].Revenue)
	assertMoney(t, 0, buckets[2].Revenue)
	assert.Equal(t, 0, buckets[2].Appointments)
}

func TestAggregateByMonth_CancelledRevenueExcluded(t *testing.T) {
	appts := []studio.Appointment{priced("c", studio.StatusCancelled, on(2025, time.March, 3), 500, 0, false)}

	buckets := studio.AggregateByMonth(appts, 2025, time.UTC)

	assertMoney(t, 0, buckets[2].Revenue)
	assert.Equal(t, 0, buckets[2].Appointments)
}

func TestAggregateByYear_Ascending(t *testing.T) {
	appts := []studio.Appointment{
		priced("a", studio.StatusCompleted, on(2025, time.May, 1), 100, 0, false),
		priced("b", studio.StatusCompleted, on(2023, time.May, 1), 50, 0, false),
		priced("c", studio.StatusConfirmed, on(2025, time.July, 1), 70, 0, false),
	}

	years := studio.AggregateByYear(appts, time.UTC)

	require.Len(t, years, 2)
	assert.Equal(t, 2023, years[0].Year)
	assert.Equal(t, 2025, years[1].Year)
	assertMoney(t, 100, years[1].Revenue)
	assert.Equal(t, 2, years[1].Appointments)
}

// =============================================================================
// STYLE BREAKDOWN
// =============================================================================

func styled(clientID string, price int64) studio.Appointment {
	a := priced(clientID+"-appt", studio.StatusCompleted, at(9, 0), price, 0, false)
	a.ClientID = clientID
	return a
}

func TestAggregateByStyle_BucketsAndShares(t *testing.T) {
	clients := []studio.Client{
		{ID: "c1", TenantID: "t1", PreferredStyle: "Realistic"},
		{ID: "c2", TenantID: "t1", PreferredStyle: "Old School"},
		{ID: "c3", TenantID: "t1", PreferredStyle: "  "},
	}
	appts := []studio.Appointment{
		styled("c1", 300),
		styled("c1", 100),
		styled("c2", 100),
		styled("c3", 50),
		styled("unknown", 50),
	}

	buckets := studio.AggregateByStyle(appts, clients)

	require.Len(t, buckets, 3)
	assert.Equal(t, "Realistic", buckets[0].Style)
	assert.Equal(t, 2, buckets[0].Count)
	assertMoney(t, 400, buckets[0].Revenue)
	assertMoney(t, 200, buckets[0].AveragePerJob)
	assertMoney(t, 66, buckets[0].PercentOfTotal.Floor())
	assert.Equal(t, "66.67", buckets[0].PercentOfTotal.StringFixed(2))

	// Old School and the default bucket tie at 100; first-seen order holds.
	assert.Equal(t, "Old School", buckets[1].Style)
	assert.Equal(t, studio.DefaultStyle, buckets[2].Style)
	assert.Equal(t, 2, buckets[2].Count)
}

func TestAggregateByStyle_SkipsNonCompleted(t *testing.T) {
	confirmed := styled("c1", 300)
	confirmed.Status = studio.StatusConfirmed

	assert.Empty(t, studio.AggregateByStyle([]studio.Appointment{confirmed}, nil))
}

func TestAggregates_Deterministic(t *testing.T) {
	clients := []studio.Client{{ID: "c1", PreferredStyle: "Blackwork"}, {ID: "c2", PreferredStyle: "Dotwork"}}
	appts := []studio.Appointment{styled("c1", 100), styled("c2", 100), styled("c1", 40)}

	first := studio.AggregateByStyle(appts, clients)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, studio.AggregateByStyle(appts, clients))
	}
	assert.Equal(t, studio.AggregateByMonth(appts, 2025, time.UTC), studio.AggregateByMonth(appts, 2025, time.UTC))
}

func TestCompletedIn(t *testing.T) {
	march := studio.MonthPeriod(2025, time.March, time.UTC)
	appts := []studio.Appointment{
		priced("a", studio.StatusCompleted, on(2025, time.March, 2), 1, 0, false),
		priced("b", studio.StatusConfirmed, on(2025, time.March, 2), 1, 0, false),
		priced("c", studio.StatusCompleted, on(2025, time.April, 2), 1, 0, false),
	}

	assert.Equal(t, []string{"a"}, ids(studio.CompletedIn(appts, march)))
}
