/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Money is serialized as
  decimal strings, instants as RFC 3339.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request DTOs are converted to engine inputs in handlers; the engine and the
  contract factory validate them.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/contract.go: ContractJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/booking"
	"github.com/warp/studio-engine/factory"
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// APPOINTMENTS
// =============================================================================

type FinancialsDTO struct {
	PriceQuote    decimal.Decimal `json:"price_quote"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	DepositPaid   bool            `json:"deposit_paid"`
}

func (f FinancialsDTO) toDomain() studio.Financials {
	return studio.Financials{PriceQuote: f.PriceQuote, DepositAmount: f.DepositAmount, DepositPaid: f.DepositPaid}
}

// AppointmentDTO represents an appointment in API responses.
type AppointmentDTO struct {
	ID         string        `json:"id"`
	ClientID   string        `json:"client_id"`
	ClientName string        `json:"client_name,omitempty"`
	ArtistID   string        `json:"artist_id"`
	Title      string        `json:"title"`
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Status     string        `json:"status"`
	Financials FinancialsDTO `json:"financials"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  string        `json:"created_at,omitempty"`
	UpdatedAt  string        `json:"updated_at,omitempty"`
}

// ProposeAppointmentRequest is the request to book an appointment.
type ProposeAppointmentRequest struct {
	ID         string        `json:"id,omitempty"`
	ClientID   string        `json:"client_id"`
	ArtistID   string        `json:"artist_id"`
	Title      string        `json:"title"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Financials FinancialsDTO `json:"financials"`
	Notes      string        `json:"notes,omitempty"`
}

func (r ProposeAppointmentRequest) toInput() booking.ProposeInput {
	return booking.ProposeInput{
		ID:         r.ID,
		ClientID:   r.ClientID,
		ArtistID:   r.ArtistID,
		Title:      r.Title,
		Start:      r.Start,
		End:        r.End,
		Financials: r.Financials.toDomain(),
		Notes:      r.Notes,
	}
}

// ConflictCheckRequest validates a range without booking it.
type ConflictCheckRequest struct {
	ArtistID             string    `json:"artist_id"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	ExcludeAppointmentID string    `json:"exclude_appointment_id,omitempty"`
}

type ConflictCheckDTO struct {
	Conflict        bool             `json:"conflict"`
	ConflictingWith []AppointmentDTO `json:"conflicting_with"`
}

type ConflictPairDTO struct {
	First  AppointmentDTO `json:"first"`
	Second AppointmentDTO `json:"second"`
}

type ScheduleRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// =============================================================================
// STAFF & CONTRACTS
// =============================================================================

// StaffDTO represents a staff resource in API responses.
type StaffDTO struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Contract       factory.ContractJSON `json:"contract"`
	CommissionRate *int                 `json:"commission_rate"`
	UpdatedAt      string               `json:"updated_at,omitempty"`
}

// SaveStaffRequest upserts a staff resource; the id comes from the path.
type SaveStaffRequest struct {
	Name           string               `json:"name"`
	Contract       factory.ContractJSON `json:"contract"`
	CommissionRate *int                 `json:"commission_rate"`
}

// CommissionRequest sets or clears (null) the commission rate.
type CommissionRequest struct {
	CommissionRate *int `json:"commission_rate"`
}

type ContractStatusDTO struct {
	ContractType string `json:"contract_type"`
	StatusLabel  string `json:"status_label"`
	MainValue    string `json:"main_value"`
	SubText      string `json:"sub_text"`
	AlertLevel   string `json:"alert_level"`
	DaysLeft     *int   `json:"days_left,omitempty"`
	Remaining    *int   `json:"remaining,omitempty"`
}

type AlertDTO struct {
	StaffID   string            `json:"staff_id"`
	StaffName string            `json:"staff_name"`
	Status    ContractStatusDTO `json:"status"`
	CheckedAt string            `json:"checked_at"`
}

type SlotsDTO struct {
	ArtistID string   `json:"artist_id"`
	Duration string   `json:"duration"`
	Slots    []string `json:"slots"`
}

// =============================================================================
// CLIENTS
// =============================================================================

type ClientDTO struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone,omitempty"`
	PreferredStyle string `json:"preferred_style,omitempty"`
	DisplayName    string `json:"display_name"`
}

// =============================================================================
// REPORTS
// =============================================================================

type PeriodDTO struct {
	Filter  string `json:"filter"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	AllTime bool   `json:"all_time,omitempty"`
}

type FinancialSummaryDTO struct {
	Period              PeriodDTO        `json:"period"`
	StaffID             string           `json:"staff_id,omitempty"`
	TotalEarnings       decimal.Decimal  `json:"total_earnings"`
	PendingDeposits     decimal.Decimal  `json:"pending_deposits"`
	CompletedCount      int              `json:"completed_count"`
	PendingCount        int              `json:"pending_count"`
	CommissionRate      *int             `json:"commission_rate,omitempty"`
	EstimatedCommission *decimal.Decimal `json:"estimated_commission,omitempty"`
}

type MonthBucketDTO struct {
	Month        int             `json:"month"`
	MonthName    string          `json:"month_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	Appointments int             `json:"appointments"`
}

type YearBucketDTO struct {
	Year         int             `json:"year"`
	Revenue      decimal.Decimal `json:"revenue"`
	Appointments int             `json:"appointments"`
}

type StyleBucketDTO struct {
	Style          string          `json:"style"`
	Count          int             `json:"count"`
	Revenue        decimal.Decimal `json:"revenue"`
	AveragePerJob  decimal.Decimal `json:"average_per_job"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	TenantID   string `json:"tenant_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error          string   `json:"error"`
	Details        string   `json:"details,omitempty"`
	ConflictingIDs []string `json:"conflicting_ids,omitempty"`
	Used           *int     `json:"used,omitempty"`
	Total          *int     `json:"total,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toAppointmentDTO(a studio.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:       a.ID,
		ClientID: a.ClientID,
		ArtistID: a.ArtistID,
		Title:    a.Title,
		Start:    formatTime(a.Start),
		End:      formatTime(a.End),
		Status:   string(a.Status),
		Financials: FinancialsDTO{
			PriceQuote:    a.Financials.PriceQuote,
			DepositAmount: a.Financials.DepositAmount,
			DepositPaid:   a.Financials.DepositPaid,
		},
		Notes:     a.Notes,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

func toAppointmentDTOs(list []studio.Appointment) []AppointmentDTO {
	dtos := make([]AppointmentDTO, len(list))
	for i, a := range list {
		dtos[i] = toAppointmentDTO(a)
	}
	return dtos
}

func toContractStatusDTO(s studio.ContractStatus) ContractStatusDTO {
	return ContractStatusDTO{
		ContractType: string(s.ContractType),
		StatusLabel:  s.StatusLabel,
		MainValue:    s.MainValue,
		SubText:      s.SubText,
		AlertLevel:   string(s.AlertLevel),
		DaysLeft:     s.DaysLeft,
		Remaining:    s.Remaining,
	}
}

func toClientDTO(c studio.Client) ClientDTO {
	return ClientDTO{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		PreferredStyle: c.PreferredStyle,
		DisplayName:    c.DisplayName(),
	}
}

func toPeriodDTO(filter studio.PeriodFilter, p studio.Period) PeriodDTO {
	if p.Unbounded {
		return PeriodDTO{Filter: string(filter), AllTime: true}
	}
	return PeriodDTO{Filter: string(filter), Start: formatTime(p.Start), End: formatTime(p.End)}
}

func toSummaryDTO(filter studio.PeriodFilter, staffID string, s studio.FinancialSummary) FinancialSummaryDTO {
	return FinancialSummaryDTO{
		Period:              toPeriodDTO(filter, s.Period),
		StaffID:             staffID,
		TotalEarnings:       s.TotalEarnings,
		PendingDeposits:     s.PendingDeposits,
		CompletedCount:      s.CompletedCount,
		PendingCount:        s.PendingCount,
		CommissionRate:      s.CommissionRate,
		EstimatedCommission: s.EstimatedCommission,
	}
}
