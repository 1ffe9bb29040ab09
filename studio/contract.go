/*
contract.go - Rent-seat contract terms and the resource ledger projection

PURPOSE:
  A staff member either has no rent contract, pays a monthly seat rent with a
  renewal date, or buys a pack of presences that is consumed one day at a
  time. Commission is a separate axis (StaffResource.CommissionRate).

TAGGED UNION:
  ContractTerms = NoContract | MonthlyRent{Amount, RenewalDate} | RentPack{Amount, Total, Used}

  The interface is sealed (unexported method) so only these three exist.

PRESENCE RECORDING:
  RentPack.Record() is a clamped increment: Used never exceeds Total when a
  finite pack total is set. A pack with Total <= 0 has no cap.

STATUS PROJECTION:
  DescribeContractStatus(resource, now) renders "days until renewal" or
  "presences remaining" with an alert level:

    RENT_MONTHLY: daysLeft = ceil((renewal - now) / 24h)
                  daysLeft < 0 => CRITICAL, 0..5 => WARNING, else OK
    RENT_PACK:    remaining = total - used
                  remaining <= 0 => CRITICAL, <= 2 => WARNING, else OK
    NONE:         NoContractStatus sentinel (not an error)

SEE ALSO:
  - booking/engine.go: RecordPresence, RenewPack
  - factory/contract.go: JSON representation
*/
package studio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT TERMS
// =============================================================================

type ContractType string

const (
	ContractNone    ContractType = "NONE"
	ContractMonthly ContractType = "RENT_MONTHLY"
	ContractPack    ContractType = "RENT_PACK"
)

// ContractTerms is implemented by NoContract, MonthlyRent and RentPack.
type ContractTerms interface {
	Type() ContractType
	validate() error
}

type NoContract struct{}

func (NoContract) Type() ContractType { return ContractNone }
func (NoContract) validate() error    { return nil }

type MonthlyRent struct {
	Amount      decimal.Decimal
	RenewalDate time.Time
}

func (MonthlyRent) Type() ContractType { return ContractMonthly }

func (m MonthlyRent) validate() error {
	if m.Amount.IsNegative() {
		return &ValidationError{Field: "rent_amount", Message: "must be >= 0"}
	}
	if m.RenewalDate.IsZero() {
		return &ValidationError{Field: "renewal_date", Message: "is required for monthly rent"}
	}
	return nil
}

type RentPack struct {
	Amount decimal.Decimal
	Total  int
	Used   int
}

func (RentPack) Type() ContractType { return ContractPack }

func (p RentPack) validate() error {
	if p.Amount.IsNegative() {
		return &ValidationError{Field: "rent_amount", Message: "must be >= 0"}
	}
	if p.Used < 0 {
		return &ValidationError{Field: "pack_used", Message: "must be >= 0"}
	}
	if p.Finite() && p.Used > p.Total {
		return &ValidationError{Field: "pack_used", Message: fmt.Sprintf("exceeds pack total %d", p.Total)}
	}
	return nil
}

// Finite is true when the pack has a presence cap.
func (p RentPack) Finite() bool { return p.Total > 0 }

// Remaining presences; meaningless for an uncapped pack.
func (p RentPack) Remaining() int { return p.Total - p.Used }

// Record consumes one presence. The receiver is not modified.
func (p RentPack) Record(staffID string) (RentPack, error) {
	if p.Finite() && p.Used >= p.Total {
		return p, &PackExhaustedError{StaffID: staffID, Used: p.Used, Total: p.Total}
	}
	p.Used++
	return p, nil
}

// Renew starts a fresh pack with the same size.
func (p RentPack) Renew() RentPack {
	p.Used = 0
	return p
}

// =============================================================================
// CONTRACT STATUS PROJECTION
// =============================================================================

type AlertLevel string

const (
	AlertNone     AlertLevel = "NONE"
	AlertOK       AlertLevel = "OK"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

const (
	renewalWarningDays = 5
	packWarningLeft    = 2
)

// ContractStatus is the display projection of a staff resource's contract.
type ContractStatus struct {
	ContractType ContractType
	StatusLabel  string
	MainValue    string
	SubText      string
	AlertLevel   AlertLevel

	DaysLeft  *int // RENT_MONTHLY only
	Remaining *int // finite RENT_PACK only
}

// NoContractStatus is returned for staff without a rent contract.
var NoContractStatus = ContractStatus{
	ContractType: ContractNone,
	StatusLabel:  "No contract",
	MainValue:    "-",
	AlertLevel:   AlertNone,
}

// HasContract is false for the NoContractStatus sentinel.
func (c ContractStatus) HasContract() bool { return c.ContractType != ContractNone }

// NeedsAttention is true for WARNING and CRITICAL projections.
func (c ContractStatus) NeedsAttention() bool {
	return c.AlertLevel == AlertWarning || c.AlertLevel == AlertCritical
}

// DescribeContractStatus projects the contract of s at now. Pure.
func DescribeContractStatus(s StaffResource, now time.Time) ContractStatus {
	switch terms := s.Terms().(type) {
	case MonthlyRent:
		return describeMonthly(terms, now)
	case RentPack:
		return describePack(terms)
	default:
		return NoContractStatus
	}
}

// DaysUntil returns ceil((target - now) / 24h).
func DaysUntil(target, now time.Time) int {
	d := target.Sub(now)
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

func describeMonthly(m MonthlyRent, now time.Time) ContractStatus {
	daysLeft := DaysUntil(m.RenewalDate, now)
	status := ContractStatus{
		ContractType: ContractMonthly,
		StatusLabel:  "Monthly rent",
		SubText:      "Renewal on " + m.RenewalDate.Format("2006-01-02"),
		DaysLeft:     &daysLeft,
	}
	switch {
	case daysLeft < 0:
		status.AlertLevel = AlertCritical
		status.MainValue = "Expired"
		status.SubText = fmt.Sprintf("Expired %d days ago (%s)", -daysLeft, m.RenewalDate.Format("2006-01-02"))
	case daysLeft <= renewalWarningDays:
		status.AlertLevel = AlertWarning
		status.MainValue = fmt.Sprintf("%d days", daysLeft)
	default:
		status.AlertLevel = AlertOK
		status.MainValue = fmt.Sprintf("%d days", daysLeft)
	}
	return status
}

func describePack(p RentPack) ContractStatus {
	status := ContractStatus{
		ContractType: ContractPack,
		StatusLabel:  "Presence pack",
	}
	if !p.Finite() {
		status.AlertLevel = AlertOK
		status.MainValue = fmt.Sprintf("%d used", p.Used)
		status.SubText = "No presence limit"
		return status
	}

	remaining := p.Remaining()
	status.Remaining = &remaining
	status.MainValue = fmt.Sprintf("%d/%d", remaining, p.Total)
	status.SubText = fmt.Sprintf("%d of %d presences used", p.Used, p.Total)
	switch {
	case remaining <= 0:
		status.AlertLevel = AlertCritical
	case remaining <= packWarningLeft:
		status.AlertLevel = AlertWarning
	default:
		status.AlertLevel = AlertOK
	}
	return status
}
