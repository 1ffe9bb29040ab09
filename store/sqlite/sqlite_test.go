package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppointments_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	appt := studio.Appointment{
		ID: "a1", TenantID: "t1", ClientID: "c1", ArtistID: "art", Title: "Koi",
		Start: start, End: start.Add(90 * time.Minute), Status: studio.StatusConfirmed,
		Financials: studio.Financials{
			PriceQuote:    studio.MustParseMoney("350.50"),
			DepositAmount: studio.MustParseMoney("50"),
		},
		Notes: "left forearm", CreatedAt: start.Add(-24 * time.Hour), UpdatedAt: start.Add(-24 * time.Hour),
	}
	require.NoError(t, s.SaveAppointment(ctx, appt))

	got, err := s.GetAppointment(ctx, "t1", "a1")
	require.NoError(t, err)
	assert.True(t, got.Start.Equal(appt.Start))
	assert.True(t, got.End.Equal(appt.End))
	assert.True(t, got.Financials.PriceQuote.Equal(appt.Financials.PriceQuote))
	assert.True(t, got.Financials.HasPendingDeposit())
	assert.Equal(t, "left forearm", got.Notes)

	// Update keeps created_at.
	appt.Status = studio.StatusCompleted
	appt.Financials.DepositPaid = true
	appt.CreatedAt = time.Time{}
	appt.UpdatedAt = start
	require.NoError(t, s.SaveAppointment(ctx, appt))

	got, err = s.GetAppointment(ctx, "t1", "a1")
	require.NoError(t, err)
	assert.Equal(t, studio.StatusCompleted, got.Status)
	assert.False(t, got.Financials.HasPendingDeposit())
	assert.True(t, got.CreatedAt.Equal(start.Add(-24*time.Hour)))
}

func TestAppointments_TenantScopeAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Sub-second starts must still order chronologically.
	starts := map[string]time.Time{
		"b": base.Add(500 * time.Millisecond),
		"a": base,
		"c": base.Add(time.Hour),
	}
	for id, st := range starts {
		require.NoError(t, s.SaveAppointment(ctx, studio.Appointment{
			ID: id, TenantID: "t1", ClientID: "c1", ArtistID: "art", Start: st, End: st.Add(time.Minute),
			Status: studio.StatusConfirmed,
		}))
	}
	require.NoError(t, s.SaveAppointment(ctx, studio.Appointment{
		ID: "z", TenantID: "t1", ClientID: "c1", ArtistID: "other", Start: base, End: base.Add(time.Minute),
		Status: studio.StatusConfirmed,
	}))

	list, err := s.ListAppointments(ctx, "t1", "art")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)

	all, err := s.ListAppointments(ctx, "t1", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = s.GetAppointment(ctx, "t2", "a")
	assert.ErrorIs(t, err, studio.ErrTenantScope)
	_, err = s.GetAppointment(ctx, "t1", "missing")
	assert.ErrorIs(t, err, studio.ErrNotFound)

	err = s.SaveAppointment(ctx, studio.Appointment{ID: "a", TenantID: "t2", Start: base, End: base.Add(time.Hour)})
	assert.ErrorIs(t, err, studio.ErrTenantScope)
}

func TestStaff_ContractRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	renewal := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	staff := []studio.StaffResource{
		{ID: "monthly", TenantID: "t1", Name: "Mara", Contract: studio.MonthlyRent{Amount: studio.Money(400), RenewalDate: renewal}},
		{ID: "pack", TenantID: "t1", Name: "Luca", Contract: studio.RentPack{Amount: studio.Money(150), Total: 10, Used: 4}, CommissionRate: studio.IntPtr(30)},
		{ID: "none", TenantID: "t1", Name: "Ivo"},
	}
	for _, r := range staff {
		require.NoError(t, s.SaveStaffResource(ctx, r))
	}

	m, err := s.GetStaffResource(ctx, "t1", "monthly")
	require.NoError(t, err)
	monthly, ok := m.Contract.(studio.MonthlyRent)
	require.True(t, ok)
	assert.True(t, monthly.RenewalDate.Equal(renewal))
	assert.True(t, monthly.Amount.Equal(studio.Money(400)))
	assert.Nil(t, m.CommissionRate)

	p, err := s.GetStaffResource(ctx, "t1", "pack")
	require.NoError(t, err)
	assert.Equal(t, studio.RentPack{Amount: p.Contract.(studio.RentPack).Amount, Total: 10, Used: 4}, p.Contract)
	require.NotNil(t, p.CommissionRate)
	assert.Equal(t, 30, *p.CommissionRate)

	n, err := s.GetStaffResource(ctx, "t1", "none")
	require.NoError(t, err)
	assert.Equal(t, studio.ContractNone, n.ContractType())

	// Switching contract type clears the old columns.
	p.Contract = studio.NoContract{}
	p.CommissionRate = nil
	require.NoError(t, s.SaveStaffResource(ctx, p))
	p, err = s.GetStaffResource(ctx, "t1", "pack")
	require.NoError(t, err)
	assert.Equal(t, studio.ContractNone, p.ContractType())
	assert.Nil(t, p.CommissionRate)

	list, err := s.ListStaffResources(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = s.GetStaffResource(ctx, "t2", "pack")
	assert.ErrorIs(t, err, studio.ErrTenantScope)
}

func TestClientsAndTenants(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveClient(ctx, studio.Client{ID: "c1", TenantID: "t1", FirstName: "Anna", PreferredStyle: "Realistic"}))
	require.NoError(t, s.SaveClient(ctx, studio.Client{ID: "c2", TenantID: "t2", FirstName: "Tom"}))
	assert.ErrorIs(t, s.SaveClient(ctx, studio.Client{ID: "c1", TenantID: "t2"}), studio.ErrTenantScope)

	clients, err := s.ListClients(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Realistic", clients[0].PreferredStyle)

	require.NoError(t, s.SaveStaffResource(ctx, studio.StaffResource{ID: "s2", TenantID: "t2"}))
	require.NoError(t, s.SaveStaffResource(ctx, studio.StaffResource{ID: "s1", TenantID: "t1"}))
	tenants, err := s.ListTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, tenants)

	require.NoError(t, s.Reset(ctx))
	tenants, err = s.ListTenants(ctx)
	require.NoError(t, err)
	assert.Empty(t, tenants)
}
