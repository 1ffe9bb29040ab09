package studio

import "time"

// FreeSlots returns slot starts within [windowStart, windowEnd) where a
// booking of length duration would pass CheckConflict against busy. Slots
// starting before now are skipped. Cancelled bookings do not block.
func FreeSlots(windowStart, windowEnd time.Time, duration, step time.Duration, busy []Appointment, now time.Time) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !windowEnd.After(windowStart) || windowStart.Add(duration).After(windowEnd) {
		return nil
	}

	var slots []time.Time
	for t := windowStart; !t.Add(duration).After(windowEnd); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		if !overlapsAny(t, t.Add(duration), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []Appointment) bool {
	for _, b := range busy {
		if b.Blocking() && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
