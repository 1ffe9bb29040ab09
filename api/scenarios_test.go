package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

func loadScenario(t *testing.T, s *testServer, id string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", "", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestScenario_AllScenariosLoadWithoutError(t *testing.T) {
	s := setupTestServer(t)

	list := decodeBody[[]ScenarioDTO](t, s.do(t, http.MethodGet, "/api/scenarios", "", nil))
	require.NotEmpty(t, list)

	for _, sc := range list {
		t.Run(sc.ID, func(t *testing.T) {
			loadScenario(t, s, sc.ID)
		})
	}
}

func TestScenario_Unknown(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/load", "", LoadScenarioRequest{ScenarioID: "nope"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_StudioBasics(t *testing.T) {
	// GIVEN
	s := setupTestServer(t)
	loadScenario(t, s, "studio-basics")

	// THEN: Every booking was accepted, three are completed this month
	appts := decodeBody[[]AppointmentDTO](t, s.do(t, http.MethodGet, "/api/appointments", DefaultScenarioTenant, nil))
	assert.Len(t, appts, 7)

	summary := decodeBody[FinancialSummaryDTO](t, s.do(t, http.MethodGet, "/api/financials/summary?period=this-month", DefaultScenarioTenant, nil))
	assert.Equal(t, 3, summary.CompletedCount)
	assert.True(t, summary.TotalEarnings.Equal(studio.Money(930)), summary.TotalEarnings.String())
	assert.True(t, summary.PendingDeposits.Equal(studio.Money(180)), summary.PendingDeposits.String())

	staff := decodeBody[[]StaffDTO](t, s.do(t, http.MethodGet, "/api/staff", DefaultScenarioTenant, nil))
	assert.Len(t, staff, 3)

	// AND: No contract needs attention
	assert.Empty(t, s.handler.Alerts.Alerts(DefaultScenarioTenant))
}

func TestScenario_ContractAlerts(t *testing.T) {
	s := setupTestServer(t)
	loadScenario(t, s, "contract-alerts")

	alerts := decodeBody[[]AlertDTO](t, s.do(t, http.MethodGet, "/api/alerts", DefaultScenarioTenant, nil))

	require.Len(t, alerts, 3)
	assert.Equal(t, "giulia", alerts[0].StaffID)
	assert.Equal(t, "CRITICAL", alerts[0].Status.AlertLevel)
	assert.Equal(t, "marco", alerts[1].StaffID)
	assert.Equal(t, "CRITICAL", alerts[1].Status.AlertLevel)
	assert.Equal(t, "Expired", alerts[1].Status.MainValue)
	assert.Equal(t, "sara", alerts[2].StaffID)
	assert.Equal(t, "WARNING", alerts[2].Status.AlertLevel)

	// The exhausted pack refuses another presence
	rec := s.do(t, http.MethodPost, "/api/staff/giulia/presences", DefaultScenarioTenant, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestScenario_LegacyOverlap(t *testing.T) {
	s := setupTestServer(t)
	loadScenario(t, s, "legacy-overlap")

	pairs := decodeBody[[]ConflictPairDTO](t, s.do(t, http.MethodGet, "/api/appointments/conflicts", DefaultScenarioTenant, nil))

	require.Len(t, pairs, 1)
	assert.Equal(t, "legacy-1", pairs[0].First.ID)
	assert.Equal(t, "legacy-2", pairs[0].Second.ID)
}

func TestScenario_ReloadResets(t *testing.T) {
	// GIVEN: A loaded scenario
	s := setupTestServer(t)
	loadScenario(t, s, "studio-basics")

	// WHEN: Another scenario is loaded
	loadScenario(t, s, "legacy-overlap")

	// THEN: Only the second scenario's data remains
	appts, err := s.store.ListAppointments(context.Background(), DefaultScenarioTenant, "")
	require.NoError(t, err)
	assert.Len(t, appts, 2)
}
