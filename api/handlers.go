/*
handlers.go - HTTP API handlers for the studio booking engine

PURPOSE:
  Exposes the booking engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to booking.Engine.

ENDPOINTS:
  Appointments:
    GET    /api/appointments                  List (optional ?artist_id=)
    POST   /api/appointments                  Propose a booking
    POST   /api/appointments/check            Conflict check without booking
    GET    /api/appointments/conflicts        Overlapping pairs already stored
    GET    /api/appointments/{id}             Get appointment
    PUT    /api/appointments/{id}/schedule    Reschedule
    PUT    /api/appointments/{id}/financials  Update price / deposit
    POST   /api/appointments/{id}/status      Status transition

  Staff:
    GET    /api/staff                         List staff with contracts
    PUT    /api/staff/{id}                    Upsert staff resource
    GET    /api/staff/{id}/contract-status    Contract projection
    POST   /api/staff/{id}/presences          Record one pack presence
    POST   /api/staff/{id}/renew-pack         New pack purchased
    PUT    /api/staff/{id}/commission         Set / clear commission
    GET    /api/staff/{id}/slots              Free slots (?from=&to=&duration=&step=)

  Reporting:
    GET    /api/financials/summary            ?period=&staff_id=
    GET    /api/reports/monthly               ?year=
    GET    /api/reports/yearly
    GET    /api/reports/styles                ?period=
    GET    /api/alerts                        Last contract alert sweep

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid range, validation errors
  - 403: Resource owned by another tenant
  - 404: Resource not found
  - 409: Booking conflict, pack exhausted, invalid transition
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/studio-engine/booking"
	"github.com/warp/studio-engine/factory"
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence the API needs beyond the engine: client writes
// and scenario resets.
type Store interface {
	studio.Store
	studio.TenantLister
	SaveClient(ctx context.Context, c studio.Client) error
	Reset(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine    *booking.Engine
	Store     Store
	Contracts *factory.ContractFactory

	// Alerts is optional; without it /api/alerts returns an empty list.
	Alerts *ContractAlertScheduler

	logger *slog.Logger
}

// NewHandler creates a new handler around engine and store.
func NewHandler(engine *booking.Engine, store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Engine:    engine,
		Store:     store,
		Contracts: factory.NewContractFactory(engine.Location()),
		logger:    logger.With("component", "api"),
	}
}

// Ready reports whether the store answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store not ready", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// =============================================================================
// APPOINTMENT ENDPOINTS
// =============================================================================

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	views, err := h.Engine.ListAppointments(r.Context(), tenantFrom(r), r.URL.Query().Get("artist_id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]AppointmentDTO, len(views))
	for i, v := range views {
		dtos[i] = toAppointmentDTO(v.Appointment)
		dtos[i].ClientName = v.ClientName
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ProposeAppointment(w http.ResponseWriter, r *http.Request) {
	var req ProposeAppointmentRequest
	if !decode(w, r, &req) {
		return
	}

	appt, err := h.Engine.ProposeAppointment(r.Context(), tenantFrom(r), req.toInput())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentDTO(appt))
}

func (h *Handler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	var req ConflictCheckRequest
	if !decode(w, r, &req) {
		return
	}

	check, err := h.Engine.CheckConflict(r.Context(), tenantFrom(r), req.ArtistID, req.Start, req.End, req.ExcludeAppointmentID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConflictCheckDTO{
		Conflict:        check.Conflict,
		ConflictingWith: toAppointmentDTOs(check.ConflictingWith),
	})
}

func (h *Handler) ScanConflicts(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.Engine.ScanConflicts(r.Context(), tenantFrom(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]ConflictPairDTO, len(pairs))
	for i, p := range pairs {
		dtos[i] = ConflictPairDTO{First: toAppointmentDTO(p.First), Second: toAppointmentDTO(p.Second)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.Engine.GetAppointment(r.Context(), tenantFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

func (h *Handler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !decode(w, r, &req) {
		return
	}

	appt, err := h.Engine.RescheduleAppointment(r.Context(), tenantFrom(r), chi.URLParam(r, "id"), req.Start, req.End)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

func (h *Handler) UpdateFinancials(w http.ResponseWriter, r *http.Request) {
	var req FinancialsDTO
	if !decode(w, r, &req) {
		return
	}

	appt, err := h.Engine.UpdateFinancials(r.Context(), tenantFrom(r), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

func (h *Handler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := studio.ParseStatus(req.Status)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	appt, err := h.Engine.TransitionStatus(r.Context(), tenantFrom(r), chi.URLParam(r, "id"), status)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

// =============================================================================
// STAFF ENDPOINTS
// =============================================================================

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Engine.ListStaff(r.Context(), tenantFrom(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]StaffDTO, len(staff))
	for i, s := range staff {
		dtos[i] = h.toStaffDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveStaff(w http.ResponseWriter, r *http.Request) {
	var req SaveStaffRequest
	if !decode(w, r, &req) {
		return
	}
	terms, err := h.Contracts.Build(req.Contract)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	saved, err := h.Engine.SaveStaffResource(r.Context(), tenantFrom(r), studio.StaffResource{
		ID:             chi.URLParam(r, "id"),
		TenantID:       tenantFrom(r),
		Name:           req.Name,
		Contract:       terms,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toStaffDTO(saved))
}

func (h *Handler) GetContractStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Engine.DescribeContract(r.Context(), tenantFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContractStatusDTO(status))
}

func (h *Handler) RecordPresence(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Engine.RecordPresence(r.Context(), tenantFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toStaffDTO(staff))
}

func (h *Handler) RenewPack(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Engine.RenewPack(r.Context(), tenantFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toStaffDTO(staff))
}

func (h *Handler) SetCommission(w http.ResponseWriter, r *http.Request) {
	var req CommissionRequest
	if !decode(w, r, &req) {
		return
	}

	staff, err := h.Engine.SetCommissionRate(r.Context(), tenantFrom(r), chi.URLParam(r, "id"), req.CommissionRate)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toStaffDTO(staff))
}

// FreeSlots expects RFC 3339 from/to and Go durations (e.g. "2h", "30m").
// step defaults to 30m.
func (h *Handler) FreeSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from (RFC 3339)", err)
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to (RFC 3339)", err)
		return
	}
	duration, err := time.ParseDuration(q.Get("duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid duration", err)
		return
	}
	step := 30 * time.Minute
	if raw := q.Get("step"); raw != "" {
		if step, err = time.ParseDuration(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid step", err)
			return
		}
	}

	artistID := chi.URLParam(r, "id")
	slots, err := h.Engine.FreeSlots(r.Context(), tenantFrom(r), artistID, from, to, duration, step)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	out := SlotsDTO{ArtistID: artistID, Duration: duration.String(), Slots: make([]string, len(slots))}
	for i, s := range slots {
		out.Slots[i] = formatTime(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// CLIENT ENDPOINTS
// =============================================================================

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context(), tenantFrom(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveClient(w http.ResponseWriter, r *http.Request) {
	var req ClientDTO
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		h.writeEngineError(w, &studio.ValidationError{Field: "id", Message: "is required"})
		return
	}

	c := studio.Client{
		ID:             req.ID,
		TenantID:       tenantFrom(r),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		PreferredStyle: req.PreferredStyle,
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c))
}

// =============================================================================
// REPORTING ENDPOINTS
// =============================================================================

func (h *Handler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := studio.ParsePeriodFilter(r.URL.Query().Get("period"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	staffID := r.URL.Query().Get("staff_id")

	summary, err := h.Engine.GetFinancialSummary(r.Context(), tenantFrom(r), filter, staffID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(filter, staffID, summary))
}

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year := h.Engine.Now().In(h.Engine.Location()).Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}

	buckets, err := h.Engine.GetMonthlyAggregate(r.Context(), tenantFrom(r), year)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]MonthBucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = MonthBucketDTO{Month: int(b.Month), MonthName: b.Month.String(), Revenue: b.Revenue, Appointments: b.Appointments}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetYearlyReport(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Engine.GetYearlyAggregate(r.Context(), tenantFrom(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]YearBucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = YearBucketDTO{Year: b.Year, Revenue: b.Revenue, Appointments: b.Appointments}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetStyleReport(w http.ResponseWriter, r *http.Request) {
	filter, err := studio.ParsePeriodFilter(r.URL.Query().Get("period"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	buckets, err := h.Engine.GetStyleAggregate(r.Context(), tenantFrom(r), filter)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dtos := make([]StyleBucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = StyleBucketDTO{
			Style:          b.Style,
			Count:          b.Count,
			Revenue:        b.Revenue,
			AveragePerJob:  b.AveragePerJob,
			PercentOfTotal: b.PercentOfTotal,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	var alerts []ContractAlert
	if h.Alerts != nil {
		alerts = h.Alerts.Alerts(tenantFrom(r))
	}

	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = AlertDTO{
			StaffID:   a.StaffID,
			StaffName: a.StaffName,
			Status:    toContractStatusDTO(a.Status),
			CheckedAt: formatTime(a.CheckedAt),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// writeEngineError maps domain errors to HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var (
		conflict *studio.ConflictError
		pack     *studio.PackExhaustedError
	)
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:          "Booking conflict",
			Details:        err.Error(),
			ConflictingIDs: conflict.IDs(),
		})
	case errors.As(err, &pack):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "Presence pack exhausted",
			Details: err.Error(),
			Used:    studio.IntPtr(pack.Used),
			Total:   studio.IntPtr(pack.Total),
		})
	case errors.Is(err, studio.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid status transition", err)
	case errors.Is(err, studio.ErrNotPackContract):
		writeError(w, http.StatusConflict, "Staff resource has no presence pack", err)
	case errors.Is(err, studio.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "Invalid time range", err)
	case errors.Is(err, studio.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, studio.ErrTenantScope):
		writeError(w, http.StatusForbidden, "Resource belongs to another tenant", err)
	case studio.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		h.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func (h *Handler) toStaffDTO(s studio.StaffResource) StaffDTO {
	return StaffDTO{
		ID:             s.ID,
		Name:           s.Name,
		Contract:       h.Contracts.ToJSON(s.Terms()),
		CommissionRate: s.CommissionRate,
		UpdatedAt:      formatTime(s.UpdatedAt),
	}
}
