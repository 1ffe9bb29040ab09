/*
aggregate.go - Dashboard rollups derived from the appointment set

PURPOSE:
  Monthly, yearly and style breakdowns shown on the studio dashboard.

RULES:
  - CANCELLED appointments are excluded everywhere.
  - Revenue counts COMPLETED price quotes only, so the twelve monthly
    revenues of a year add up to that year's TotalEarnings.
  - Appointments counts every non-cancelled booking in the bucket.
  - Style buckets join each completed appointment to its client's
    PreferredStyle; unknown clients and blank styles go to DefaultStyle.

DETERMINISM:
  Same input => identical output. Style buckets are stable-sorted by revenue
  descending; ties keep first-seen order of the style key.
*/
package studio

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStyle is the bucket for clients without a preferred style.
const DefaultStyle = "ALTRO / NON SPECIFICATO"

// =============================================================================
// MONTHLY / YEARLY
// =============================================================================

type MonthBucket struct {
	Month        time.Month
	Revenue      decimal.Decimal
	Appointments int
}

// AggregateByMonth returns twelve buckets, January first, for year in loc.
func AggregateByMonth(appointments []Appointment, year int, loc *time.Location) []MonthBucket {
	if loc == nil {
		loc = time.Local
	}
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i] = MonthBucket{Month: time.Month(i + 1), Revenue: decimal.Zero}
	}

	for _, a := range appointments {
		if a.Status == StatusCancelled {
			continue
		}
		local := a.Start.In(loc)
		if local.Year() != year {
			continue
		}
		b := &buckets[local.Month()-1]
		b.Appointments++
		if a.Status == StatusCompleted {
			b.Revenue = b.Revenue.Add(a.Financials.PriceQuote)
		}
	}
	return buckets
}

type YearBucket struct {
	Year         int
	Revenue      decimal.Decimal
	Appointments int
}

// AggregateByYear returns one bucket per year that has bookings, ascending.
func AggregateByYear(appointments []Appointment, loc *time.Location) []YearBucket {
	if loc == nil {
		loc = time.Local
	}
	byYear := make(map[int]*YearBucket)
	for _, a := range appointments {
		if a.Status == StatusCancelled {
			continue
		}
		year := a.Start.In(loc).Year()
		b, ok := byYear[year]
		if !ok {
			b = &YearBucket{Year: year, Revenue: decimal.Zero}
			byYear[year] = b
		}
		b.Appointments++
		if a.Status == StatusCompleted {
			b.Revenue = b.Revenue.Add(a.Financials.PriceQuote)
		}
	}

	result := make([]YearBucket, 0, len(byYear))
	for _, b := range byYear {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result
}

// =============================================================================
// STYLE BREAKDOWN
// =============================================================================

type StyleBucket struct {
	Style          string
	Count          int
	Revenue        decimal.Decimal
	AveragePerJob  decimal.Decimal // Revenue / Count, 2 digits
	PercentOfTotal decimal.Decimal // Revenue / grand total * 100, 2 digits
}

// AggregateByStyle groups completed appointments by their client's style.
// Non-completed appointments in the input are skipped.
func AggregateByStyle(completed []Appointment, clients []Client) []StyleBucket {
	styleOf := make(map[string]string, len(clients))
	for _, c := range clients {
		styleOf[c.ID] = styleKey(c.PreferredStyle)
	}

	index := make(map[string]int)
	var buckets []StyleBucket
	grand := decimal.Zero

	for _, a := range completed {
		if a.Status != StatusCompleted {
			continue
		}
		style, ok := styleOf[a.ClientID]
		if !ok {
			style = DefaultStyle
		}
		i, seen := index[style]
		if !seen {
			i = len(buckets)
			index[style] = i
			buckets = append(buckets, StyleBucket{Style: style, Revenue: decimal.Zero})
		}
		buckets[i].Count++
		buckets[i].Revenue = buckets[i].Revenue.Add(a.Financials.PriceQuote)
		grand = grand.Add(a.Financials.PriceQuote)
	}

	for i := range buckets {
		b := &buckets[i]
		b.AveragePerJob = b.Revenue.Div(decimal.NewFromInt(int64(b.Count))).Round(2)
		b.PercentOfTotal = ShareOf(b.Revenue, grand)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Revenue.GreaterThan(buckets[j].Revenue)
	})
	return buckets
}

func styleKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultStyle
	}
	return s
}

// CompletedIn filters completed appointments whose start lies in period.
func CompletedIn(appointments []Appointment, period Period) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.Status == StatusCompleted && period.Contains(a.Start) {
			out = append(out, a)
		}
	}
	return out
}
