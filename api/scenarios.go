/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	studio data. Each scenario creates staff (with contracts), clients and
	appointments relative to the engine's clock.

AVAILABLE SCENARIOS:

	studio-basics:  Three artists, every contract type, a normal week of bookings
	contract-alerts: Expired rent and an exhausted presence pack
	legacy-overlap: Imported double booking, visible via the conflict scan

HOW SCENARIOS WORK:
 1. Reset store (clear all data, all tenants)
 2. Create staff via the contract factory and the engine
 3. Create clients
 4. Book appointments through the engine (conflict checked)
 5. Apply status transitions

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "studio-basics", "tenant_id": "demo-studio"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context
  - factory/contract.go: Contract JSON definitions
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/booking"
	"github.com/warp/studio-engine/factory"
	"github.com/warp/studio-engine/studio"
)

// DefaultScenarioTenant is used when a load request names no tenant.
const DefaultScenarioTenant = "demo-studio"

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "studio-basics",
		Name:        "Studio Basics",
		Description: "Monthly rent, presence pack and commission-only artists with a week of bookings",
	},
	{
		ID:          "contract-alerts",
		Name:        "Contract Alerts",
		Description: "Expired monthly rent and an exhausted presence pack",
	},
	{
		ID:          "legacy-overlap",
		Name:        "Legacy Overlap",
		Description: "Double booking imported from the previous system, reported by the conflict scan",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		tenantID = DefaultScenarioTenant
	}

	var load func(ctx context.Context, tenantID string) error
	switch req.ScenarioID {
	case "studio-basics":
		load = h.loadStudioBasicsScenario
	case "contract-alerts":
		load = h.loadContractAlertsScenario
	case "legacy-overlap":
		load = h.loadLegacyOverlapScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := load(ctx, tenantID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	if h.Alerts != nil {
		if _, err := h.Alerts.CheckNow(ctx); err != nil {
			h.logger.Warn("alert sweep after scenario load failed", "error", err)
		}
	}

	h.logger.Info("scenario loaded", "scenario", req.ScenarioID, "tenant_id", tenantID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID, "tenant_id": tenantID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadStudioBasicsScenario(ctx context.Context, tenantID string) error {
	today := h.today()

	staff := []seedStaff{
		{
			id: "marco", name: "Marco Bianchi", commission: studio.IntPtr(40),
			contract: factory.ContractJSON{
				Type:        string(studio.ContractMonthly),
				RentAmount:  studio.Money(400),
				RenewalDate: today.AddDate(0, 0, 20).Format("2006-01-02"),
			},
		},
		{
			id: "giulia", name: "Giulia Verdi",
			contract: factory.ContractJSON{
				Type:       string(studio.ContractPack),
				RentAmount: studio.Money(150),
				PackTotal:  10,
				PackUsed:   4,
			},
		},
		{
			id: "luca", name: "Luca Neri", commission: studio.IntPtr(30),
			contract: factory.ContractJSON{Type: string(studio.ContractNone)},
		},
	}
	if err := h.seedStaff(ctx, tenantID, staff); err != nil {
		return err
	}
	if err := h.seedClients(ctx, tenantID, defaultClients()); err != nil {
		return err
	}

	return h.seedBookings(ctx, tenantID, today, []seedBooking{
		{client: "c-anna", artist: "marco", title: "Forearm portrait", day: -3, hour: 10, hours: 3, price: "300", deposit: "100", paid: true, status: studio.StatusCompleted},
		{client: "c-bruno", artist: "marco", title: "Koi sleeve session 1", day: -1, hour: 14, hours: 4, price: "450", deposit: "150", paid: true, status: studio.StatusCompleted},
		{client: "c-carla", artist: "giulia", title: "Rose on shoulder", day: -2, hour: 11, hours: 2, price: "180", deposit: "50", paid: true, status: studio.StatusCompleted},
		{client: "c-bruno", artist: "marco", title: "Koi sleeve session 2", day: 2, hour: 10, hours: 4, price: "450", deposit: "150", paid: false},
		{client: "c-dario", artist: "luca", title: "Lettering", day: 1, hour: 15, hours: 1, price: "90", deposit: "30", paid: false},
		{client: "c-anna", artist: "giulia", title: "Touch-up", day: 1, hour: 9, hours: 1, price: "0", deposit: "0", paid: false, status: studio.StatusCancelled},
		{client: "c-carla", artist: "giulia", title: "Wrist linework", day: 3, hour: 16, hours: 2, price: "160", deposit: "40", paid: true},
	})
}

func (h *Handler) loadContractAlertsScenario(ctx context.Context, tenantID string) error {
	today := h.today()

	staff := []seedStaff{
		{
			id: "marco", name: "Marco Bianchi",
			contract: factory.ContractJSON{
				Type:        string(studio.ContractMonthly),
				RentAmount:  studio.Money(400),
				RenewalDate: today.AddDate(0, 0, -2).Format("2006-01-02"),
			},
		},
		{
			id: "giulia", name: "Giulia Verdi", commission: studio.IntPtr(25),
			contract: factory.ContractJSON{
				Type:       string(studio.ContractPack),
				RentAmount: studio.Money(150),
				PackTotal:  10,
				PackUsed:   10,
			},
		},
		{
			id: "sara", name: "Sara Gallo",
			contract: factory.ContractJSON{
				Type:        string(studio.ContractMonthly),
				RentAmount:  studio.Money(350),
				RenewalDate: today.AddDate(0, 0, 4).Format("2006-01-02"),
			},
		},
	}
	if err := h.seedStaff(ctx, tenantID, staff); err != nil {
		return err
	}
	if err := h.seedClients(ctx, tenantID, defaultClients()); err != nil {
		return err
	}

	return h.seedBookings(ctx, tenantID, today, []seedBooking{
		{client: "c-anna", artist: "giulia", title: "Fine line flowers", day: 1, hour: 10, hours: 2, price: "200", deposit: "60", paid: false},
		{client: "c-bruno", artist: "sara", title: "Blackwork band", day: 2, hour: 13, hours: 3, price: "280", deposit: "80", paid: true},
	})
}

// loadLegacyOverlapScenario writes the overlapping pair straight to the
// store, as an import from a system without serialized writes would have.
func (h *Handler) loadLegacyOverlapScenario(ctx context.Context, tenantID string) error {
	today := h.today()

	staff := []seedStaff{
		{id: "marco", name: "Marco Bianchi", contract: factory.ContractJSON{Type: string(studio.ContractNone)}},
	}
	if err := h.seedStaff(ctx, tenantID, staff); err != nil {
		return err
	}
	if err := h.seedClients(ctx, tenantID, defaultClients()); err != nil {
		return err
	}

	created := h.Engine.Now()
	imported := []studio.Appointment{
		{ID: "legacy-1", ClientID: "c-anna", Title: "Back piece", Start: today.Add(10 * time.Hour), End: today.Add(13 * time.Hour)},
		{ID: "legacy-2", ClientID: "c-bruno", Title: "Chest piece", Start: today.Add(12 * time.Hour), End: today.Add(15 * time.Hour)},
	}
	for _, a := range imported {
		a.TenantID = tenantID
		a.ArtistID = "marco"
		a.Status = studio.StatusConfirmed
		a.Financials = studio.Financials{PriceQuote: studio.Money(350), DepositAmount: decimal.Zero}
		a.CreatedAt, a.UpdatedAt = created, created
		if err := h.Store.SaveAppointment(ctx, a); err != nil {
			return fmt.Errorf("import %s: %w", a.ID, err)
		}
	}
	return nil
}

// =============================================================================
// SEED HELPERS
// =============================================================================

type seedStaff struct {
	id, name   string
	contract   factory.ContractJSON
	commission *int
}

type seedBooking struct {
	client, artist, title string
	day, hour, hours      int
	price, deposit        string
	paid                  bool
	status                studio.Status // empty stays CONFIRMED
}

// today is midnight of the engine's current day in its calendar.
func (h *Handler) today() time.Time {
	now := h.Engine.Now().In(h.Engine.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.Engine.Location())
}

func defaultClients() []studio.Client {
	return []studio.Client{
		{ID: "c-anna", FirstName: "Anna", LastName: "Rossi", Phone: "+39 333 100 0001", PreferredStyle: "Realistic"},
		{ID: "c-bruno", FirstName: "Bruno", LastName: "Esposito", Phone: "+39 333 100 0002", PreferredStyle: "Japanese"},
		{ID: "c-carla", FirstName: "Carla", LastName: "Romano", PreferredStyle: "Realistic"},
		{ID: "c-dario", FirstName: "Dario"},
	}
}

func (h *Handler) seedStaff(ctx context.Context, tenantID string, staff []seedStaff) error {
	for _, s := range staff {
		terms, err := h.Contracts.Build(s.contract)
		if err != nil {
			return fmt.Errorf("contract for %s: %w", s.id, err)
		}
		if _, err := h.Engine.SaveStaffResource(ctx, tenantID, studio.StaffResource{
			ID:             s.id,
			TenantID:       tenantID,
			Name:           s.name,
			Contract:       terms,
			CommissionRate: s.commission,
		}); err != nil {
			return fmt.Errorf("staff %s: %w", s.id, err)
		}
	}
	return nil
}

func (h *Handler) seedClients(ctx context.Context, tenantID string, clients []studio.Client) error {
	for _, c := range clients {
		c.TenantID = tenantID
		if err := h.Store.SaveClient(ctx, c); err != nil {
			return fmt.Errorf("client %s: %w", c.ID, err)
		}
	}
	return nil
}

func (h *Handler) seedBookings(ctx context.Context, tenantID string, today time.Time, bookings []seedBooking) error {
	for _, b := range bookings {
		start := today.AddDate(0, 0, b.day).Add(time.Duration(b.hour) * time.Hour)
		appt, err := h.Engine.ProposeAppointment(ctx, tenantID, booking.ProposeInput{
			ClientID: b.client,
			ArtistID: b.artist,
			Title:    b.title,
			Start:    start,
			End:      start.Add(time.Duration(b.hours) * time.Hour),
			Financials: studio.Financials{
				PriceQuote:    studio.MustParseMoney(b.price),
				DepositAmount: studio.MustParseMoney(b.deposit),
				DepositPaid:   b.paid,
			},
		})
		if err != nil {
			return fmt.Errorf("booking %q: %w", b.title, err)
		}
		if b.status == "" || b.status == studio.StatusConfirmed {
			continue
		}
		if _, err := h.Engine.TransitionStatus(ctx, tenantID, appt.ID, b.status); err != nil {
			return fmt.Errorf("booking %q to %s: %w", b.title, b.status, err)
		}
	}
	return nil
}
