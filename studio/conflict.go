/*
conflict.go - Half-open overlap validation per staff resource

PURPOSE:
  Decides whether a proposed [start, end) range can be booked for an artist
  given that artist's existing appointments. Read-only: it never writes.

INVARIANT:
  An existing booking [s, e) conflicts with [S, E) iff s < E AND S < e.
  Back-to-back bookings (e == S) never conflict. CANCELLED bookings never
  block. Zero or negative durations are rejected before the overlap test.

EDITING:
  excludeID lets an appointment being edited be re-validated against all
  other bookings without colliding with itself.

RACE:
  The check runs over a snapshot. Callers that persist after a successful
  check must hold the per-artist lock (booking.Locker) across check + save.

SEE ALSO:
  - booking/engine.go: ProposeAppointment, RescheduleAppointment
  - slots.go: Free slot search built on the same test
*/
package studio

import (
	"sort"
	"time"
)

// ConflictCheck is the outcome of CheckConflict.
type ConflictCheck struct {
	Conflict        bool
	ConflictingWith []Appointment
}

// ValidateRange rejects end <= start.
func ValidateRange(start, end time.Time) error {
	if !end.After(start) {
		return &InvalidRangeError{Start: start, End: end}
	}
	return nil
}

// CheckConflict tests [start, end) against existing bookings of artistID.
// Appointments for other artists are ignored, so the caller may pass an
// unfiltered tenant list. Conflicts are ordered by start time, then id.
func CheckConflict(existing []Appointment, artistID string, start, end time.Time, excludeID string) (ConflictCheck, error) {
	if err := ValidateRange(start, end); err != nil {
		return ConflictCheck{}, err
	}

	var conflicts []Appointment
	for _, a := range existing {
		if a.ArtistID != artistID || !a.Blocking() {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if a.Overlaps(start, end) {
			conflicts = append(conflicts, a)
		}
	}
	sortByStart(conflicts)

	return ConflictCheck{Conflict: len(conflicts) > 0, ConflictingWith: conflicts}, nil
}

// ConflictPair is two persisted bookings of the same artist that overlap.
type ConflictPair struct {
	First  Appointment
	Second Appointment
}

// ScanConflicts finds overlapping pairs already present in a booking set,
// e.g. rows written by two racing callers before writes were serialized.
// Pairs are ordered by the first booking's start.
func ScanConflicts(appointments []Appointment) []ConflictPair {
	byArtist := make(map[string][]Appointment)
	var artists []string
	for _, a := range appointments {
		if !a.Blocking() {
			continue
		}
		if _, seen := byArtist[a.ArtistID]; !seen {
			artists = append(artists, a.ArtistID)
		}
		byArtist[a.ArtistID] = append(byArtist[a.ArtistID], a)
	}
	sort.Strings(artists)

	var pairs []ConflictPair
	for _, artist := range artists {
		list := byArtist[artist]
		sortByStart(list)
		for i := range list {
			for j := i + 1; j < len(list); j++ {
				// Sorted by start: once list[j] starts at or after list[i] ends,
				// no later booking can overlap list[i].
				if !list[j].Start.Before(list[i].End) {
					break
				}
				pairs = append(pairs, ConflictPair{First: list[i], Second: list[j]})
			}
		}
	}
	return pairs
}

func sortByStart(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Start.Equal(list[j].Start) {
			return list[i].Start.Before(list[j].Start)
		}
		return list[i].ID < list[j].ID
	})
}
