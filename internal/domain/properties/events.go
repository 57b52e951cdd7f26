package properties

import (
	"time"

	"staycal/internal/domain/shared/events"
)

type PropertyDeleted struct {
	events.Base
	ReservationsRemoved int `json:"reservations_removed"`
}

type PricesUpdated struct {
	events.Base
	Start string   `json:"start"`
	End   string   `json:"end"`
	Price *float64 `json:"price,omitempty"`
}

type LockChanged struct {
	events.Base
	Locked bool `json:"locked"`
}

func PropertyDeletedEvent(p Property, removed int, at time.Time) PropertyDeleted {
	return PropertyDeleted{
		Base:                events.NewBase("property.deleted", string(p.ID), p.OwnerID, at),
		ReservationsRemoved: removed,
	}
}

// PricesUpdatedEvent reports a bulk change; a nil price means the overrides were cleared.
func PricesUpdatedEvent(p Property, start, end string, price *float64, at time.Time) PricesUpdated {
	return PricesUpdated{
		Base:  events.NewBase("property.prices_updated", string(p.ID), p.OwnerID, at),
		Start: start,
		End:   end,
		Price: copyPrice(price),
	}
}

func LockChangedEvent(p Property, at time.Time) LockChanged {
	return LockChanged{
		Base:   events.NewBase("property.lock_changed", string(p.ID), p.OwnerID, at),
		Locked: p.Locked,
	}
}
