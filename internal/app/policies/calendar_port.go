package policies

import (
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
)

// CalendarEncoder renders a property's reservations as a calendar feed.
type CalendarEncoder interface {
	Encode(p properties.Property, list []reservations.Reservation) ([]byte, error)
	ContentType() string
}
