/*
Package booking exposes the scheduling engine to UI / API callers.

PURPOSE:
  Wraps the pure functions of package studio with storage, tenant scoping,
  clocks and write serialization. Every operation is synchronous: it reads a
  snapshot, validates, optionally writes, and returns.

OPERATIONS:
  ProposeAppointment     validate + conflict check + persist (CONFIRMED)
  RescheduleAppointment  re-validate a booking against all other bookings
  UpdateFinancials       price quote / deposit edits
  TransitionStatus       CONFIRMED -> COMPLETED / CANCELLED (+ reconciliation)
  RecordPresence         consume one rent-pack presence (clamped)
  RenewPack              reset the used presence counter
  SaveStaffResource      contract / commission writes
  GetFinancialSummary    earnings, pending deposits, estimated commission
  GetMonthlyAggregate    twelve monthly buckets for a year
  GetYearlyAggregate     one bucket per booked year
  GetStyleAggregate      style breakdown of completed work
  FreeSlots              bookable slot starts for an artist

CONCURRENCY:
  Writes that depend on a prior read hold a Locker key for the whole
  read-check-write sequence: ArtistKey for appointment writes, StaffKey for
  ledger writes. Two callers proposing overlapping ranges for the same artist
  are serialized, so the second one sees the first booking and gets a
  ConflictError. The default Locker is in-process; use RedisLocker when more
  than one engine instance shares a store.

TENANT SCOPE:
  The caller's tenant is an explicit argument of every operation. Records
  read from the store are re-checked against it.

SEE ALSO:
  - studio/conflict.go, studio/earnings.go, studio/aggregate.go
  - lock.go, redislock.go: Locker implementations
*/
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// ENGINE
// =============================================================================

// CompletionHook receives the artist's this-month figures after an
// appointment moves to COMPLETED.
type CompletionHook func(ctx context.Context, appt studio.Appointment, summary studio.FinancialSummary)

type Engine struct {
	store       studio.Store
	locker      Locker
	now         func() time.Time
	loc         *time.Location
	logger      *slog.Logger
	newID       func() string
	onCompleted CompletionHook
}

type Option func(*Engine)

func WithLocker(l Locker) Option { return func(e *Engine) { e.locker = l } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithLocation sets the calendar used for period filters and rollups.
func WithLocation(loc *time.Location) Option { return func(e *Engine) { e.loc = loc } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

func WithCompletionHook(h CompletionHook) Option { return func(e *Engine) { e.onCompleted = h } }

func NewEngine(store studio.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		locker: NewKeyedMutex(),
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "booking")
	return e
}

// Location returns the engine's reporting calendar.
func (e *Engine) Location() *time.Location { return e.loc }

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time { return e.now() }

// =============================================================================
// INPUTS
// =============================================================================

// ProposeInput describes a booking request. The json tags name the fields
// in validation errors.
type ProposeInput struct {
	ID         string            `json:"id"` // optional, generated when empty
	ClientID   string            `json:"client_id"`
	ArtistID   string            `json:"artist_id"`
	Title      string            `json:"title"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Financials studio.Financials `json:"financials"`
	Notes      string            `json:"notes"`
}

func (in ProposeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ClientID, validation.Required),
		validation.Field(&in.ArtistID, validation.Required),
		validation.Field(&in.Title, validation.Length(0, 200)),
		validation.Field(&in.Start, validation.Required),
		validation.Field(&in.End, validation.Required),
	)
}

// AppointmentView is an appointment with the client name resolved.
type AppointmentView struct {
	studio.Appointment
	ClientName string
}

// =============================================================================
// BOOKING
// =============================================================================

// ProposeAppointment validates and persists a new CONFIRMED appointment.
// Returns *studio.ConflictError when the range overlaps another booking.
func (e *Engine) ProposeAppointment(ctx context.Context, tenantID string, in ProposeInput) (studio.Appointment, error) {
	if err := in.Validate(); err != nil {
		return studio.Appointment{}, invalidInput(err)
	}
	if err := studio.ValidateRange(in.Start, in.End); err != nil {
		return studio.Appointment{}, err
	}
	if err := in.Financials.Validate(); err != nil {
		return studio.Appointment{}, err
	}
	if _, err := e.staff(ctx, tenantID, in.ArtistID); err != nil {
		return studio.Appointment{}, err
	}
	if _, err := e.client(ctx, tenantID, in.ClientID); err != nil {
		return studio.Appointment{}, err
	}

	unlock, err := e.locker.Lock(ctx, ArtistKey(tenantID, in.ArtistID))
	if err != nil {
		return studio.Appointment{}, fmt.Errorf("lock artist %s: %w", in.ArtistID, err)
	}
	defer unlock()

	id := strings.TrimSpace(in.ID)
	if id != "" {
		_, err := e.store.GetAppointment(ctx, tenantID, id)
		switch {
		case err == nil:
			return studio.Appointment{}, &studio.ValidationError{Field: "id", Message: "appointment " + id + " already exists"}
		case !studio.IsNotFound(err):
			return studio.Appointment{}, err
		}
	} else {
		id = e.newID()
	}

	existing, err := e.store.ListAppointments(ctx, tenantID, in.ArtistID)
	if err != nil {
		return studio.Appointment{}, fmt.Errorf("list appointments: %w", err)
	}
	check, err := studio.CheckConflict(existing, in.ArtistID, in.Start, in.End, "")
	if err != nil {
		return studio.Appointment{}, err
	}
	if check.Conflict {
		conflict := &studio.ConflictError{
			ArtistID:        in.ArtistID,
			Start:           in.Start,
			End:             in.End,
			ConflictingWith: check.ConflictingWith,
		}
		e.logger.Info("booking rejected",
			"tenant_id", tenantID, "artist_id", in.ArtistID, "conflicting_ids", conflict.IDs())
		return studio.Appointment{}, conflict
	}

	now := e.now()
	appt := studio.Appointment{
		ID:         id,
		TenantID:   tenantID,
		ClientID:   in.ClientID,
		ArtistID:   in.ArtistID,
		Title:      in.Title,
		Start:      in.Start,
		End:        in.End,
		Status:     studio.StatusConfirmed,
		Financials: in.Financials,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.SaveAppointment(ctx, appt); err != nil {
		return studio.Appointment{}, fmt.Errorf("save appointment: %w", err)
	}

	e.logger.Info("appointment booked",
		"tenant_id", tenantID, "appointment_id", appt.ID, "artist_id", appt.ArtistID,
		"start", appt.Start, "end", appt.End)
	return appt, nil
}

// CheckConflict is the read-only validation used by UIs before submitting.
func (e *Engine) CheckConflict(ctx context.Context, tenantID, artistID string, start, end time.Time, excludeID string) (studio.ConflictCheck, error) {
	if err := studio.ValidateRange(start, end); err != nil {
		return studio.ConflictCheck{}, err
	}
	if _, err := e.staff(ctx, tenantID, artistID); err != nil {
		return studio.ConflictCheck{}, err
	}
	existing, err := e.store.ListAppointments(ctx, tenantID, artistID)
	if err != nil {
		return studio.ConflictCheck{}, fmt.Errorf("list appointments: %w", err)
	}
	return studio.CheckConflict(existing, artistID, start, end, excludeID)
}

// RescheduleAppointment moves a booking to [start, end), re-validating it
// against every other booking of the same artist.
func (e *Engine) RescheduleAppointment(ctx context.Context, tenantID, appointmentID string, start, end time.Time) (studio.Appointment, error) {
	if err := studio.ValidateRange(start, end); err != nil {
		return studio.Appointment{}, err
	}

	var result studio.Appointment
	err := e.withAppointment(ctx, tenantID, appointmentID, func(appt studio.Appointment) (studio.Appointment, bool, error) {
		if appt.Status == studio.StatusCancelled {
			return appt, false, &studio.ValidationError{Field: "status", Message: "cancelled appointments cannot be rescheduled"}
		}
		existing, err := e.store.ListAppointments(ctx, tenantID, appt.ArtistID)
		if err != nil {
			return appt, false, fmt.Errorf("list appointments: %w", err)
		}
		check, err := studio.CheckConflict(existing, appt.ArtistID, start, end, appt.ID)
		if err != nil {
			return appt, false, err
		}
		if check.Conflict {
			return appt, false, &studio.ConflictError{
				ArtistID: appt.ArtistID, Start: start, End: end, ConflictingWith: check.ConflictingWith,
			}
		}
		appt.Start, appt.End = start, end
		appt.UpdatedAt = e.now()
		result = appt
		return appt, true, nil
	})
	if err != nil {
		return studio.Appointment{}, err
	}

	e.logger.Info("appointment rescheduled",
		"tenant_id", tenantID, "appointment_id", appointmentID, "start", start, "end", end)
	return result, nil
}

// UpdateFinancials replaces the financial sub-record of an appointment.
func (e *Engine) UpdateFinancials(ctx context.Context, tenantID, appointmentID string, f studio.Financials) (studio.Appointment, error) {
	if err := f.Validate(); err != nil {
		return studio.Appointment{}, err
	}

	var result studio.Appointment
	err := e.withAppointment(ctx, tenantID, appointmentID, func(appt studio.Appointment) (studio.Appointment, bool, error) {
		appt.Financials = f
		appt.UpdatedAt = e.now()
		result = appt
		return appt, true, nil
	})
	return result, err
}

// TransitionStatus moves an appointment to next. A same-status call returns
// the stored record untouched. On COMPLETED the artist's this-month figures
// are recomputed and handed to the completion hook.
func (e *Engine) TransitionStatus(ctx context.Context, tenantID, appointmentID string, next studio.Status) (studio.Appointment, error) {
	if !next.Valid() {
		return studio.Appointment{}, &studio.ValidationError{Field: "status", Message: "unknown status " + string(next)}
	}

	var (
		result  studio.Appointment
		changed bool
		from    studio.Status
	)
	err := e.withAppointment(ctx, tenantID, appointmentID, func(appt studio.Appointment) (studio.Appointment, bool, error) {
		from = appt.Status
		if appt.Status == next {
			result = appt
			return appt, false, nil
		}
		if !appt.Status.CanTransition(next) {
			return appt, false, &studio.InvalidTransitionError{AppointmentID: appt.ID, From: appt.Status, To: next}
		}
		appt.Status = next
		appt.UpdatedAt = e.now()
		result, changed = appt, true
		return appt, true, nil
	})
	if err != nil {
		return studio.Appointment{}, err
	}
	if !changed {
		return result, nil
	}

	e.logger.Info("appointment status changed",
		"tenant_id", tenantID, "appointment_id", appointmentID, "from", from, "to", next)

	if next == studio.StatusCompleted {
		summary, err := e.GetFinancialSummary(ctx, tenantID, studio.PeriodThisMonth, result.ArtistID)
		if err != nil {
			// The transition is persisted; figures are derived data.
			e.logger.Warn("reconciliation after completion failed",
				"tenant_id", tenantID, "appointment_id", appointmentID, "error", err)
			return result, nil
		}
		attrs := []any{
			"tenant_id", tenantID, "artist_id", result.ArtistID,
			"total_earnings", summary.TotalEarnings.String(),
			"pending_deposits", summary.PendingDeposits.String(),
		}
		if summary.EstimatedCommission != nil {
			attrs = append(attrs, "estimated_commission", summary.EstimatedCommission.String())
		}
		e.logger.Info("artist reconciled", attrs...)
		if e.onCompleted != nil {
			e.onCompleted(ctx, result, summary)
		}
	}
	return result, nil
}

// withAppointment runs fn on the current record under the artist lock and
// saves the returned record when fn reports a change.
func (e *Engine) withAppointment(ctx context.Context, tenantID, appointmentID string,
	fn func(studio.Appointment) (studio.Appointment, bool, error)) error {

	peek, err := e.appointment(ctx, tenantID, appointmentID)
	if err != nil {
		return err
	}
	unlock, err := e.locker.Lock(ctx, ArtistKey(tenantID, peek.ArtistID))
	if err != nil {
		return fmt.Errorf("lock artist %s: %w", peek.ArtistID, err)
	}
	defer unlock()

	current, err := e.appointment(ctx, tenantID, appointmentID)
	if err != nil {
		return err
	}
	updated, changed, err := fn(current)
	if err != nil || !changed {
		return err
	}
	if err := e.store.SaveAppointment(ctx, updated); err != nil {
		return fmt.Errorf("save appointment: %w", err)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (e *Engine) GetAppointment(ctx context.Context, tenantID, appointmentID string) (studio.Appointment, error) {
	return e.appointment(ctx, tenantID, appointmentID)
}

// ListAppointments returns the tenant's bookings (optionally one artist's)
// with client names resolved.
func (e *Engine) ListAppointments(ctx context.Context, tenantID, artistID string) ([]AppointmentView, error) {
	appts, err := e.store.ListAppointments(ctx, tenantID, artistID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	clients, err := e.store.ListClients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.DisplayName()
	}

	views := make([]AppointmentView, 0, len(appts))
	for _, a := range appts {
		if a.TenantID != tenantID {
			continue
		}
		name, ok := names[a.ClientID]
		if !ok {
			name = a.ClientID
		}
		views = append(views, AppointmentView{Appointment: a, ClientName: name})
	}
	return views, nil
}

// ScanConflicts reports overlapping pairs already persisted for the tenant.
func (e *Engine) ScanConflicts(ctx context.Context, tenantID string) ([]studio.ConflictPair, error) {
	appts, err := e.tenantAppointments(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return studio.ScanConflicts(appts), nil
}

// FreeSlots lists bookable slot starts for an artist in [from, to).
func (e *Engine) FreeSlots(ctx context.Context, tenantID, artistID string, from, to time.Time, duration, step time.Duration) ([]time.Time, error) {
	if err := studio.ValidateRange(from, to); err != nil {
		return nil, err
	}
	if duration <= 0 || step <= 0 {
		return nil, &studio.ValidationError{Field: "duration", Message: "duration and step must be positive"}
	}
	if _, err := e.staff(ctx, tenantID, artistID); err != nil {
		return nil, err
	}
	busy, err := e.store.ListAppointments(ctx, tenantID, artistID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return studio.FreeSlots(from, to, duration, step, busy, e.now()), nil
}

// =============================================================================
// RECONCILIATION & REPORTING
// =============================================================================

// GetFinancialSummary reconciles the tenant (staffID empty) or one artist
// over the calendar period named by filter.
func (e *Engine) GetFinancialSummary(ctx context.Context, tenantID string, filter studio.PeriodFilter, staffID string) (studio.FinancialSummary, error) {
	period := filter.Resolve(e.now(), e.loc)

	if staffID == "" {
		appts, err := e.tenantAppointments(ctx, tenantID)
		if err != nil {
			return studio.FinancialSummary{}, err
		}
		return studio.Summarize(appts, period, nil), nil
	}

	staff, err := e.staff(ctx, tenantID, staffID)
	if err != nil {
		return studio.FinancialSummary{}, err
	}
	appts, err := e.store.ListAppointments(ctx, tenantID, staffID)
	if err != nil {
		return studio.FinancialSummary{}, fmt.Errorf("list appointments: %w", err)
	}
	return studio.Summarize(scoped(appts, tenantID), period, &staff), nil
}

func (e *Engine) GetMonthlyAggregate(ctx context.Context, tenantID string, year int) ([]studio.MonthBucket, error) {
	appts, err := e.tenantAppointments(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return studio.AggregateByMonth(appts, year, e.loc), nil
}

func (e *Engine) GetYearlyAggregate(ctx context.Context, tenantID string) ([]studio.YearBucket, error) {
	appts, err := e.tenantAppointments(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return studio.AggregateByYear(appts, e.loc), nil
}

func (e *Engine) GetStyleAggregate(ctx context.Context, tenantID string, filter studio.PeriodFilter) ([]studio.StyleBucket, error) {
	appts, err := e.tenantAppointments(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	clients, err := e.store.ListClients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	period := filter.Resolve(e.now(), e.loc)
	return studio.AggregateByStyle(studio.CompletedIn(appts, period), clients), nil
}

// =============================================================================
// RESOURCE LEDGER
// =============================================================================

// DescribeContract projects a stored staff resource's contract at the engine clock.
func (e *Engine) DescribeContract(ctx context.Context, tenantID, staffID string) (studio.ContractStatus, error) {
	staff, err := e.staff(ctx, tenantID, staffID)
	if err != nil {
		return studio.ContractStatus{}, err
	}
	return studio.DescribeContractStatus(staff, e.now()), nil
}

// RecordPresence consumes one presence from the staff member's pack. The
// caller is responsible for having confirmed the action with the user.
func (e *Engine) RecordPresence(ctx context.Context, tenantID, staffID string) (studio.StaffResource, error) {
	return e.updatePack(ctx, tenantID, staffID, func(p studio.RentPack) (studio.RentPack, error) {
		return p.Record(staffID)
	}, "presence recorded")
}

// RenewPack resets the used presences after a new pack has been bought.
func (e *Engine) RenewPack(ctx context.Context, tenantID, staffID string) (studio.StaffResource, error) {
	return e.updatePack(ctx, tenantID, staffID, func(p studio.RentPack) (studio.RentPack, error) {
		return p.Renew(), nil
	}, "presence pack renewed")
}

func (e *Engine) updatePack(ctx context.Context, tenantID, staffID string,
	fn func(studio.RentPack) (studio.RentPack, error), event string) (studio.StaffResource, error) {

	unlock, err := e.locker.Lock(ctx, StaffKey(tenantID, staffID))
	if err != nil {
		return studio.StaffResource{}, fmt.Errorf("lock staff %s: %w", staffID, err)
	}
	defer unlock()

	staff, err := e.staff(ctx, tenantID, staffID)
	if err != nil {
		return studio.StaffResource{}, err
	}
	pack, ok := staff.Terms().(studio.RentPack)
	if !ok {
		return studio.StaffResource{}, fmt.Errorf("%w: %s is on %s", studio.ErrNotPackContract, staffID, staff.ContractType())
	}
	updated, err := fn(pack)
	if err != nil {
		var exhausted *studio.PackExhaustedError
		if errors.As(err, &exhausted) {
			e.logger.Info("presence rejected",
				"tenant_id", tenantID, "staff_id", staffID, "used", exhausted.Used, "total", exhausted.Total)
		}
		return studio.StaffResource{}, err
	}

	staff.Contract = updated
	staff.UpdatedAt = e.now()
	if err := e.store.SaveStaffResource(ctx, staff); err != nil {
		return studio.StaffResource{}, fmt.Errorf("save staff resource: %w", err)
	}
	e.logger.Info(event, "tenant_id", tenantID, "staff_id", staffID, "used", updated.Used, "total", updated.Total)
	return staff, nil
}

// SaveStaffResource validates and upserts a staff resource for the caller's tenant.
func (e *Engine) SaveStaffResource(ctx context.Context, tenantID string, s studio.StaffResource) (studio.StaffResource, error) {
	if s.TenantID == "" {
		s.TenantID = tenantID
	}
	if err := studio.CheckTenant(studio.KindStaff, s.ID, tenantID, s.TenantID); err != nil {
		return studio.StaffResource{}, err
	}
	if err := s.Validate(); err != nil {
		return studio.StaffResource{}, err
	}

	unlock, err := e.locker.Lock(ctx, StaffKey(tenantID, s.ID))
	if err != nil {
		return studio.StaffResource{}, fmt.Errorf("lock staff %s: %w", s.ID, err)
	}
	defer unlock()

	s.UpdatedAt = e.now()
	if err := e.store.SaveStaffResource(ctx, s); err != nil {
		return studio.StaffResource{}, fmt.Errorf("save staff resource: %w", err)
	}
	return s, nil
}

// SetCommissionRate changes the rate used by every later summary; nil removes it.
func (e *Engine) SetCommissionRate(ctx context.Context, tenantID, staffID string, rate *int) (studio.StaffResource, error) {
	unlock, err := e.locker.Lock(ctx, StaffKey(tenantID, staffID))
	if err != nil {
		return studio.StaffResource{}, fmt.Errorf("lock staff %s: %w", staffID, err)
	}
	defer unlock()

	staff, err := e.staff(ctx, tenantID, staffID)
	if err != nil {
		return studio.StaffResource{}, err
	}
	staff.CommissionRate = rate
	if err := staff.Validate(); err != nil {
		return studio.StaffResource{}, err
	}
	staff.UpdatedAt = e.now()
	if err := e.store.SaveStaffResource(ctx, staff); err != nil {
		return studio.StaffResource{}, fmt.Errorf("save staff resource: %w", err)
	}
	e.logger.Info("commission rate changed", "tenant_id", tenantID, "staff_id", staffID, "rate", rate)
	return staff, nil
}

func (e *Engine) ListStaff(ctx context.Context, tenantID string) ([]studio.StaffResource, error) {
	list, err := e.store.ListStaffResources(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	out := list[:0]
	for _, s := range list {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

// =============================================================================
// SCOPED LOOKUPS
// =============================================================================

func (e *Engine) appointment(ctx context.Context, tenantID, id string) (studio.Appointment, error) {
	a, err := e.store.GetAppointment(ctx, tenantID, id)
	if err != nil {
		return studio.Appointment{}, err
	}
	if err := studio.CheckTenant(studio.KindAppointment, id, tenantID, a.TenantID); err != nil {
		return studio.Appointment{}, err
	}
	return a, nil
}

func (e *Engine) staff(ctx context.Context, tenantID, id string) (studio.StaffResource, error) {
	s, err := e.store.GetStaffResource(ctx, tenantID, id)
	if err != nil {
		return studio.StaffResource{}, err
	}
	if err := studio.CheckTenant(studio.KindStaff, id, tenantID, s.TenantID); err != nil {
		return studio.StaffResource{}, err
	}
	return s, nil
}

func (e *Engine) client(ctx context.Context, tenantID, id string) (studio.Client, error) {
	clients, err := e.store.ListClients(ctx, tenantID)
	if err != nil {
		return studio.Client{}, fmt.Errorf("list clients: %w", err)
	}
	for _, c := range clients {
		if c.ID == id && c.TenantID == tenantID {
			return c, nil
		}
	}
	return studio.Client{}, &studio.ResourceNotFoundError{Kind: studio.KindClient, ID: id}
}

func (e *Engine) tenantAppointments(ctx context.Context, tenantID string) ([]studio.Appointment, error) {
	appts, err := e.store.ListAppointments(ctx, tenantID, "")
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return scoped(appts, tenantID), nil
}

func scoped(appts []studio.Appointment, tenantID string) []studio.Appointment {
	out := make([]studio.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out
}

// invalidInput flattens ozzo validation errors into a studio.ValidationError
// naming the first failing field.
func invalidInput(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return &studio.ValidationError{Field: fields[0], Message: verrs[fields[0]].Error()}
	}
	return &studio.ValidationError{Field: "input", Message: err.Error()}
}
