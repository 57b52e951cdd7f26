package availability

import (
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
)

type Outcome string

const (
	OutcomeInvalidRange  Outcome = "invalid_range"
	OutcomeNoneAvailable Outcome = "none_available"
	OutcomeAvailable     Outcome = "available"
)

// SearchResult tells an inverted range apart from a range where nothing is free.
type SearchResult struct {
	Outcome    Outcome
	Start      daterange.Date
	End        daterange.Date
	Properties []properties.Property
}

func (r SearchResult) Empty() bool { return len(r.Properties) == 0 }

// FindAvailable keeps the properties that have no reservation on any day of
// start..end, in input order. Each property is checked only against its own
// entry in byProperty.
func FindAvailable(
	props []properties.Property,
	byProperty map[properties.ID][]reservations.Reservation,
	start, end daterange.Date,
) SearchResult {
	result := SearchResult{Start: start, End: end, Properties: []properties.Property{}}
	if start.IsZero() || end.IsZero() || start.After(end) {
		result.Outcome = OutcomeInvalidRange
		return result
	}
	days := daterange.DatesBetween(start, end)
	for _, p := range props {
		if isFree(days, byProperty[p.ID]) {
			result.Properties = append(result.Properties, p)
		}
	}
	if len(result.Properties) == 0 {
		result.Outcome = OutcomeNoneAvailable
	} else {
		result.Outcome = OutcomeAvailable
	}
	return result
}

func isFree(days []daterange.Date, list []reservations.Reservation) bool {
	for _, d := range days {
		if reservations.IsDateReserved(d, list) {
			return false
		}
	}
	return true
}

// IndexByProperty groups a flat reservation list by property id.
func IndexByProperty(list []reservations.Reservation) map[properties.ID][]reservations.Reservation {
	out := make(map[properties.ID][]reservations.Reservation)
	for _, r := range list {
		id := properties.ID(r.PropertyID)
		out[id] = append(out[id], r)
	}
	return out
}
