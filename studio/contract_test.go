package studio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// PRESENCE PACK LEDGER
// =============================================================================

func TestRentPack_RecordExhausted(t *testing.T) {
	// GIVEN: a 10-presence pack with 10 used
	// WHEN: recording another presence
	// THEN: PackExhaustedError and the counter stays at 10
	pack := studio.RentPack{Amount: studio.Money(200), Total: 10, Used: 10}

	next, err := pack.Record("art")

	var exhausted *studio.PackExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 10, exhausted.Used)
	assert.Equal(t, 10, exhausted.Total)
	assert.Equal(t, 10, next.Used)
	assert.ErrorIs(t, err, studio.ErrPackExhausted)
}

func TestRentPack_RecordIncrementsUntilCap(t *testing.T) {
	pack := studio.RentPack{Total: 2}

	pack, err := pack.Record("art")
	require.NoError(t, err)
	pack, err = pack.Record("art")
	require.NoError(t, err)
	assert.Equal(t, 2, pack.Used)
	assert.Equal(t, 0, pack.Remaining())

	_, err = pack.Record("art")
	assert.ErrorIs(t, err, studio.ErrPackExhausted)
}

func TestRentPack_UncappedNeverExhausts(t *testing.T) {
	pack := studio.RentPack{Total: 0, Used: 40}

	next, err := pack.Record("art")

	require.NoError(t, err)
	assert.Equal(t, 41, next.Used)
}

func TestRentPack_Renew(t *testing.T) {
	pack := studio.RentPack{Amount: studio.Money(150), Total: 10, Used: 10}

	renewed := pack.Renew()

	assert.Equal(t, 0, renewed.Used)
	assert.Equal(t, 10, renewed.Total)
	assert.Equal(t, 10, pack.Used, "receiver untouched")
}

func TestStaffResource_Validate(t *testing.T) {
	ok := studio.StaffResource{ID: "art", TenantID: "t1", Contract: studio.RentPack{Total: 5, Used: 5}}
	assert.NoError(t, ok.Validate())

	over := ok
	over.Contract = studio.RentPack{Total: 5, Used: 6}
	assert.ErrorIs(t, over.Validate(), studio.ErrInvalidInput)

	rate := ok
	rate.CommissionRate = studio.IntPtr(101)
	assert.ErrorIs(t, rate.Validate(), studio.ErrInvalidInput)

	monthly := ok
	monthly.Contract = studio.MonthlyRent{Amount: studio.Money(300)}
	assert.ErrorIs(t, monthly.Validate(), studio.ErrInvalidInput, "renewal date required")

	noTenant := ok
	noTenant.TenantID = ""
	assert.Error(t, noTenant.Validate())
}

func TestStaffResource_NilContractIsNone(t *testing.T) {
	s := studio.StaffResource{ID: "art", TenantID: "t1"}

	assert.Equal(t, studio.ContractNone, s.ContractType())
	assert.IsType(t, studio.NoContract{}, s.Terms())
}

// =============================================================================
// CONTRACT STATUS PROJECTION
// =============================================================================

func TestDescribeContractStatus_NoContract(t *testing.T) {
	status := studio.DescribeContractStatus(studio.StaffResource{ID: "art"}, day)

	assert.Equal(t, studio.NoContractStatus, status)
	assert.False(t, status.HasContract())
	assert.False(t, status.NeedsAttention())
}

func TestDescribeContractStatus_Monthly(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	monthly := func(renewal time.Time) studio.StaffResource {
		return studio.StaffResource{ID: "art", Contract: studio.MonthlyRent{Amount: studio.Money(400), RenewalDate: renewal}}
	}

	tests := []struct {
		name    string
		renewal time.Time
		level   studio.AlertLevel
		days    int
		main    string
	}{
		{"far", now.AddDate(0, 0, 20), studio.AlertOK, 20, "20 days"},
		{"warning window", now.AddDate(0, 0, 5), studio.AlertWarning, 5, "5 days"},
		{"due today", now, studio.AlertWarning, 0, "0 days"},
		{"partial day rounds up", now.Add(30 * time.Hour), studio.AlertWarning, 2, "2 days"},
		{"expired", now.AddDate(0, 0, -3), studio.AlertCritical, -3, "Expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := studio.DescribeContractStatus(monthly(tt.renewal), now)

			assert.Equal(t, studio.ContractMonthly, status.ContractType)
			assert.Equal(t, tt.level, status.AlertLevel)
			require.NotNil(t, status.DaysLeft)
			assert.Equal(t, tt.days, *status.DaysLeft)
			assert.Equal(t, tt.main, status.MainValue)
			assert.Nil(t, status.Remaining)
		})
	}
}

func TestDescribeContractStatus_Pack(t *testing.T) {
	pack := func(total, used int) studio.StaffResource {
		return studio.StaffResource{ID: "art", Contract: studio.RentPack{Amount: studio.Money(100), Total: total, Used: used}}
	}

	tests := []struct {
		name      string
		total     int
		used      int
		level     studio.AlertLevel
		remaining int
	}{
		{"plenty", 10, 3, studio.AlertOK, 7},
		{"two left", 10, 8, studio.AlertWarning, 2},
		{"exhausted", 10, 10, studio.AlertCritical, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := studio.DescribeContractStatus(pack(tt.total, tt.used), day)

			assert.Equal(t, tt.level, status.AlertLevel)
			require.NotNil(t, status.Remaining)
			assert.Equal(t, tt.remaining, *status.Remaining)
			assert.Nil(t, status.DaysLeft)
		})
	}

	status := studio.DescribeContractStatus(pack(10, 7), day)
	assert.Equal(t, "3/10", status.MainValue)
	assert.Equal(t, "7 of 10 presences used", status.SubText)
}

func TestDescribeContractStatus_UncappedPack(t *testing.T) {
	s := studio.StaffResource{ID: "art", Contract: studio.RentPack{Total: 0, Used: 4}}

	status := studio.DescribeContractStatus(s, day)

	assert.Equal(t, studio.AlertOK, status.AlertLevel)
	assert.Nil(t, status.Remaining)
	assert.Equal(t, "4 used", status.MainValue)
}

func TestDaysUntil_RoundsUpExactly(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset time.Duration
		want   int
	}{
		{"same instant", 0, 0},
		{"one nanosecond ahead", time.Nanosecond, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"105 days and a nanosecond", 105*24*time.Hour + time.Nanosecond, 106},
		{"365 days and a nanosecond", 365*24*time.Hour + time.Nanosecond, 366},
		{"1000 days and a nanosecond", 1000*24*time.Hour + time.Nanosecond, 1001},
		{"two and a third days ago", -(2*24*time.Hour + 8*time.Hour), -2},
		{"exactly one day ago", -24 * time.Hour, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, studio.DaysUntil(now.Add(tt.offset), now))
		})
	}
}
