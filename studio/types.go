/*
Package studio provides the appointment scheduling and reconciliation core.

PURPOSE:
  This package contains the data model and the pure algorithms behind a
  studio's booking book: half-open conflict checks per staff resource,
  earnings / commission / pending deposit reconciliation, dashboard
  aggregates and the rent-seat ledger projection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Appointment: a booked time range [Start, End) for one artist
  - Financials: price quote and deposit sub-record of an appointment
  - Status: CONFIRMED -> COMPLETED / CANCELLED lifecycle
  - Client: read-only customer record (name resolution, style buckets)
  - StaffResource: bookable artist with contract terms and commission rate

DESIGN PRINCIPLES:
  1. Tenant scope: every record carries TenantID, no operation crosses it
  2. Precision: money uses decimal.Decimal, never float64
  3. Purity: checks and aggregates are functions over a snapshot
  4. No deletion: CANCELLED is a terminal status, records stay in the book

SEE ALSO:
  - contract.go: ContractTerms tagged union and presence recording
  - conflict.go: Conflict checker
  - earnings.go: Financial reconciliation
  - aggregate.go: Monthly / yearly / style rollups
*/
package studio

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// APPOINTMENT STATUS
// =============================================================================

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes and validates a wire status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Message: "unknown status " + raw}
	}
	return s, nil
}

// CanTransition returns true when an appointment may move from s to next.
// A same-status transition is always allowed and is a no-op.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusConfirmed || next == StatusCancelled
	default:
		return false // CANCELLED is terminal
	}
}

// =============================================================================
// APPOINTMENT
// =============================================================================

// Financials is the money sub-record persisted with every appointment.
type Financials struct {
	PriceQuote    decimal.Decimal
	DepositAmount decimal.Decimal
	DepositPaid   bool
}

// HasPendingDeposit is true when a positive deposit has not been paid yet.
func (f Financials) HasPendingDeposit() bool {
	return !f.DepositPaid && f.DepositAmount.IsPositive()
}

// Validate rejects negative amounts.
func (f Financials) Validate() error {
	if f.PriceQuote.IsNegative() {
		return &ValidationError{Field: "price_quote", Message: "must be >= 0"}
	}
	if f.DepositAmount.IsNegative() {
		return &ValidationError{Field: "deposit_amount", Message: "must be >= 0"}
	}
	return nil
}

type Appointment struct {
	ID         string
	TenantID   string
	ClientID   string
	ArtistID   string
	Title      string
	Start      time.Time
	End        time.Time
	Status     Status
	Financials Financials
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Overlaps applies the half-open test: [a.Start, a.End) and [start, end)
// overlap iff a.Start < end AND start < a.End.
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.Start.Before(end) && start.Before(a.End)
}

// Blocking is true for appointments that still occupy their slot.
func (a Appointment) Blocking() bool { return a.Status != StatusCancelled }

func (a Appointment) Duration() time.Duration { return a.End.Sub(a.Start) }

// =============================================================================
// CLIENT (read-only to the engine)
// =============================================================================

type Client struct {
	ID             string
	TenantID       string
	FirstName      string
	LastName       string
	Phone          string
	PreferredStyle string
}

// DisplayName returns "First Last", falling back to the id.
func (c Client) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.ID
	}
	return name
}

// =============================================================================
// STAFF RESOURCE
// =============================================================================

// StaffResource is the bookable artist as seen by the engine. Bio, colour and
// credentials live elsewhere; only contract terms and commission are kept here.
type StaffResource struct {
	ID       string
	TenantID string
	Name     string

	// Contract is one of NoContract, MonthlyRent, RentPack. nil means NoContract.
	Contract ContractTerms

	// CommissionRate is a percentage 0..100, independent of the contract.
	// nil means the artist works without commission.
	CommissionRate *int

	UpdatedAt time.Time
}

// Terms returns the contract terms, never nil.
func (s StaffResource) Terms() ContractTerms {
	if s.Contract == nil {
		return NoContract{}
	}
	return s.Contract
}

// ContractType is a shortcut for Terms().Type().
func (s StaffResource) ContractType() ContractType { return s.Terms().Type() }

// Validate checks the write-time invariants of a staff resource.
func (s StaffResource) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(s.TenantID) == "" {
		return &ValidationError{Field: "tenant_id", Message: "is required"}
	}
	if s.CommissionRate != nil && (*s.CommissionRate < 0 || *s.CommissionRate > 100) {
		return &ValidationError{Field: "commission_rate", Message: "must be between 0 and 100"}
	}
	return s.Terms().validate()
}

// IntPtr is a small helper for optional commission rates.
func IntPtr(v int) *int { return &v }
