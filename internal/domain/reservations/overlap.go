package reservations

import (
	"sort"

	"staycal/internal/domain/shared/daterange"
)

// Covers reports whether date falls inside the reservation. Single-day
// reservations match on equality only.
func (r Reservation) Covers(date daterange.Date) bool {
	if r.HasEndDate() {
		return !date.Before(r.Date) && !date.After(r.EndDate)
	}
	return date.Equal(r.Date)
}

// Overlaps reports whether the reservation shares at least one day with rng.
func (r Reservation) Overlaps(rng daterange.Range) bool {
	return r.Span().Overlaps(rng)
}

func IsDateReserved(date daterange.Date, list []Reservation) bool {
	for _, r := range list {
		if r.Covers(date) {
			return true
		}
	}
	return false
}

// FindReservationForDate returns the first reservation in list order covering
// date. If stored data ever overlaps, the earliest entry wins.
func FindReservationForDate(date daterange.Date, list []Reservation) (Reservation, bool) {
	for _, r := range list {
		if r.Covers(date) {
			return r, true
		}
	}
	return Reservation{}, false
}

// FirstOverlap returns the first reservation intersecting rng.
func FirstOverlap(rng daterange.Range, list []Reservation) (Reservation, bool) {
	for _, r := range list {
		if r.Overlaps(rng) {
			return r, true
		}
	}
	return Reservation{}, false
}

func RangeIsFree(rng daterange.Range, list []Reservation) bool {
	_, found := FirstOverlap(rng, list)
	return !found
}

// Intersecting keeps the reservations sharing a day with rng, in list order.
func Intersecting(rng daterange.Range, list []Reservation) []Reservation {
	out := make([]Reservation, 0)
	for _, r := range list {
		if r.Overlaps(rng) {
			out = append(out, r)
		}
	}
	return out
}

func CoveringDate(date daterange.Date, list []Reservation) []Reservation {
	out := make([]Reservation, 0)
	for _, r := range list {
		if r.Covers(date) {
			out = append(out, r)
		}
	}
	return out
}

func ForProperty(propertyID string, list []Reservation) []Reservation {
	out := make([]Reservation, 0)
	for _, r := range list {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out
}

// Without drops the reservation with the given id; used when re-checking an edit.
func Without(id ID, list []Reservation) []Reservation {
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// GroupByProperty indexes reservations by property id keeping relative order.
func GroupByProperty(list []Reservation) map[string][]Reservation {
	out := make(map[string][]Reservation)
	for _, r := range list {
		out[r.PropertyID] = append(out[r.PropertyID], r)
	}
	return out
}

// Conflict is a pair of reservations on one property whose days intersect.
// Nothing prevents two writers from both passing the overlap check before
// either persists, so such pairs can appear after a reload.
type Conflict struct {
	PropertyID string
	First      Reservation
	Second     Reservation
	Shared     daterange.Range
}

// Conflicts lists each overlapping pair once, ordered by property and start date.
func Conflicts(list []Reservation) []Conflict {
	grouped := GroupByProperty(list)
	propertyIDs := make([]string, 0, len(grouped))
	for id := range grouped {
		propertyIDs = append(propertyIDs, id)
	}
	sort.Strings(propertyIDs)

	out := make([]Conflict, 0)
	for _, pid := range propertyIDs {
		items := append([]Reservation(nil), grouped[pid]...)
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Date.Equal(items[j].Date) {
				return items[i].ID < items[j].ID
			}
			return items[i].Date.Before(items[j].Date)
		})
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if items[j].Date.After(items[i].Last()) {
					break
				}
				out = append(out, Conflict{
					PropertyID: pid,
					First:      items[i],
					Second:     items[j],
					Shared:     sharedDays(items[i].Span(), items[j].Span()),
				})
			}
		}
	}
	return out
}

func sharedDays(a, b daterange.Range) daterange.Range {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	return daterange.Range{Start: start, End: end}
}
