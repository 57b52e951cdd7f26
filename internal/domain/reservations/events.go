package reservations

import (
	"time"

	"staycal/internal/domain/shared/events"
)

type Changed struct {
	events.Base
	PropertyID string `json:"property_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     Status `json:"status"`
}

func changed(name string, r Reservation, at time.Time) Changed {
	return Changed{
		Base:       events.NewBase(name, string(r.ID), r.OwnerID, at),
		PropertyID: r.PropertyID,
		Start:      r.Date.String(),
		End:        r.Last().String(),
		Status:     r.Status,
	}
}

func CreatedEvent(r Reservation, at time.Time) Changed {
	return changed("reservation.created", r, at)
}

func UpdatedEvent(r Reservation, at time.Time) Changed {
	return changed("reservation.updated", r, at)
}

func DeletedEvent(r Reservation, at time.Time) Changed {
	return changed("reservation.deleted", r, at)
}
