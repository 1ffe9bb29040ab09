/*
earnings.go - Financial reconciliation over an appointment set

PURPOSE:
  Answers "how much did this artist (or the whole studio) earn in a period,
  how much deposit money is still outstanding, and what commission is due?"

RULES:
  TotalEarnings   = sum(PriceQuote) over COMPLETED appointments in the period
  PendingDeposits = sum(DepositAmount) over non-cancelled appointments in the
                    period with DepositPaid == false and DepositAmount > 0,
                    regardless of completion (upcoming bookings count)
  Commission      = TotalEarnings * CommissionRate / 100

  Periods match on the appointment's Start.

COMMISSION RATE:
  The rate is read from the StaffResource when the summary is computed, not
  snapshotted per appointment. Changing the rate changes every historical
  figure computed afterwards.

SEE ALSO:
  - period.go: Calendar period filters
  - booking/engine.go: GetFinancialSummary
*/
package studio

import "github.com/shopspring/decimal"

// Earnings is the reconciliation result for an appointment set.
type Earnings struct {
	TotalEarnings   decimal.Decimal
	PendingDeposits decimal.Decimal
	CompletedCount  int
	PendingCount    int // appointments with an outstanding deposit
}

// FinancialSummary is Earnings plus the commission projection for one artist.
type FinancialSummary struct {
	Period Period
	Earnings

	// Set only when the summary is scoped to a staff resource with a rate.
	CommissionRate      *int
	EstimatedCommission *decimal.Decimal
}

// ComputeEarnings reconciles appointments whose start lies in period.
func ComputeEarnings(appointments []Appointment, period Period) Earnings {
	result := Earnings{TotalEarnings: decimal.Zero, PendingDeposits: decimal.Zero}
	for _, a := range appointments {
		if !period.Contains(a.Start) || a.Status == StatusCancelled {
			continue
		}
		if a.Status == StatusCompleted {
			result.TotalEarnings = result.TotalEarnings.Add(a.Financials.PriceQuote)
			result.CompletedCount++
		}
		if a.Financials.HasPendingDeposit() {
			result.PendingDeposits = result.PendingDeposits.Add(a.Financials.DepositAmount)
			result.PendingCount++
		}
	}
	return result
}

// EstimateCommission returns total * rate / 100, or nil without a rate.
func EstimateCommission(total decimal.Decimal, rate *int) *decimal.Decimal {
	if rate == nil {
		return nil
	}
	c := Percent(total, *rate)
	return &c
}

// Summarize builds a FinancialSummary. staff may be nil for tenant-wide figures.
func Summarize(appointments []Appointment, period Period, staff *StaffResource) FinancialSummary {
	summary := FinancialSummary{
		Period:   period,
		Earnings: ComputeEarnings(appointments, period),
	}
	if staff != nil && staff.CommissionRate != nil {
		rate := *staff.CommissionRate
		summary.CommissionRate = &rate
		summary.EstimatedCommission = EstimateCommission(summary.TotalEarnings, &rate)
	}
	return summary
}
