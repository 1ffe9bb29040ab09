package studio

import (
	"strings"
	"time"
)

// =============================================================================
// PERIOD - Calendar-aligned reporting window
// =============================================================================

// Period is a half-open window [Start, End) in the caller's calendar.
// An unbounded period (all time) contains every instant.
type Period struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// Contains returns true if t is within [Start, End).
func (p Period) Contains(t time.Time) bool {
	if p.Unbounded {
		return true
	}
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p Period) String() string {
	if p.Unbounded {
		return "[all time]"
	}
	return "[" + p.Start.Format(time.RFC3339) + ", " + p.End.Format(time.RFC3339) + ")"
}

// PeriodFilter names a calendar window relative to "now".
type PeriodFilter string

const (
	PeriodThisMonth PeriodFilter = "this-month"
	PeriodLastMonth PeriodFilter = "last-month"
	PeriodThisYear  PeriodFilter = "this-year"
	PeriodLastYear  PeriodFilter = "last-year"
	PeriodAllTime   PeriodFilter = "all-time"
)

// ParsePeriodFilter accepts the wire names; empty means all time.
func ParsePeriodFilter(raw string) (PeriodFilter, error) {
	f := PeriodFilter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return PeriodAllTime, nil
	case PeriodThisMonth, PeriodLastMonth, PeriodThisYear, PeriodLastYear, PeriodAllTime:
		return f, nil
	}
	return "", &ValidationError{Field: "period", Message: "unknown period filter " + raw}
}

// Resolve computes the window for now in loc. Month and year boundaries
// are calendar boundaries, never rolling windows.
func (f PeriodFilter) Resolve(now time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	year, month := local.Year(), local.Month()

	switch f {
	case PeriodThisMonth:
		return MonthPeriod(year, month, loc)
	case PeriodLastMonth:
		return MonthPeriod(year, month-1, loc)
	case PeriodThisYear:
		return YearPeriod(year, loc)
	case PeriodLastYear:
		return YearPeriod(year-1, loc)
	default:
		return Period{Unbounded: true}
	}
}

// MonthPeriod returns [first of month, first of next month). time.Date
// normalizes month 0 to December of the previous year.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// YearPeriod returns [Jan 1, Jan 1 next year).
func YearPeriod(year int, loc *time.Location) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(1, 0, 0)}
}
