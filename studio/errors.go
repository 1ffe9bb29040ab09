/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All rejections the engine can produce, in one place. Every rejection is
  explicit and carries enough context (conflicting ids, pack usage, owning
  tenant) for a caller to explain it to an end user. None is fatal.

ERROR CATEGORIES:
  1. Input errors      - InvalidRangeError, ValidationError
  2. Booking errors    - ConflictError, InvalidTransitionError
  3. Ledger errors     - PackExhaustedError, ErrNotPackContract
  4. Lookup errors     - ResourceNotFoundError, TenantScopeError

USAGE:
  Structured errors unwrap to a sentinel, so callers can branch with
  errors.Is and read details with errors.As:

    var conflict *studio.ConflictError
    if errors.As(err, &conflict) {
        ids := conflict.IDs()
    }

SEE ALSO:
  - booking/engine.go: Produces these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package studio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a proposed end is not after its start.
	ErrInvalidRange = errors.New("invalid range: end must be after start")

	// ErrConflict is returned when a proposed range overlaps an existing booking.
	ErrConflict = errors.New("booking conflict")

	// ErrPackExhausted is returned when recording a presence on a depleted pack.
	ErrPackExhausted = errors.New("presence pack exhausted")

	// ErrNotPackContract is returned when presences are recorded for a staff
	// resource that is not on a presence pack.
	ErrNotPackContract = errors.New("staff resource has no presence pack")

	// ErrNotFound is returned when a staff, client or appointment id is unknown.
	ErrNotFound = errors.New("resource not found")

	// ErrTenantScope is returned when a record belongs to another tenant.
	ErrTenantScope = errors.New("cross-tenant access denied")

	// ErrInvalidTransition is returned for a forbidden status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned when a field fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// ConflictError lists the bookings that overlap the proposed range.
type ConflictError struct {
	ArtistID        string
	Start           time.Time
	End             time.Time
	ConflictingWith []Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict for artist %s in [%s, %s): overlaps %s",
		e.ArtistID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339),
		strings.Join(e.IDs(), ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IDs returns the ids of the conflicting appointments.
func (e *ConflictError) IDs() []string {
	ids := make([]string, len(e.ConflictingWith))
	for i, a := range e.ConflictingWith {
		ids[i] = a.ID
	}
	return ids
}

type PackExhaustedError struct {
	StaffID string
	Used    int
	Total   int
}

func (e *PackExhaustedError) Error() string {
	return fmt.Sprintf("presence pack exhausted for staff %s: %d of %d used", e.StaffID, e.Used, e.Total)
}

func (e *PackExhaustedError) Unwrap() error { return ErrPackExhausted }

// ResourceKind names the entity a lookup error refers to.
type ResourceKind string

const (
	KindAppointment ResourceKind = "appointment"
	KindStaff       ResourceKind = "staff"
	KindClient      ResourceKind = "client"
)

type ResourceNotFoundError struct {
	Kind ResourceKind
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *ResourceNotFoundError) Unwrap() error { return ErrNotFound }

type TenantScopeError struct {
	Kind         ResourceKind
	ID           string
	CallerTenant string
	OwnerTenant  string
}

func (e *TenantScopeError) Error() string {
	return fmt.Sprintf("%s %s is not visible to tenant %s", e.Kind, e.ID, e.CallerTenant)
}

func (e *TenantScopeError) Unwrap() error { return ErrTenantScope }

type InvalidTransitionError struct {
	AppointmentID string
	From          Status
	To            Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("appointment %s cannot move from %s to %s", e.AppointmentID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// CheckTenant returns a TenantScopeError when owner differs from caller.
func CheckTenant(kind ResourceKind, id, caller, owner string) error {
	if caller != owner {
		return &TenantScopeError{Kind: kind, ID: id, CallerTenant: caller, OwnerTenant: owner}
	}
	return nil
}

// IsClientError returns true if the error is due to caller input or state
// the caller can act on (pick another slot, renew the pack...).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPackExhausted) ||
		errors.Is(err, ErrNotPackContract) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrTenantScope)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
