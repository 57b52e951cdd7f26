package reservations

import (
	"context"
	"strings"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	domainreservations "staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
)

const (
	listReservationsKey = "reservations.list"
	conflictsKey        = "availability.conflicts"
)

// ListReservationsQuery lists a tenant's reservations. With PropertyID set it
// narrows to one property; Date keeps reservations covering that day and
// Start/End keep those intersecting the range.
type ListReservationsQuery struct {
	Principal  datasource.Principal
	PropertyID string
	Date       string
	Start      string
	End        string
}

func (ListReservationsQuery) Key() string { return listReservationsKey }

type ListReservationsHandler struct {
	Sources datasource.Resolver
}

func (h *ListReservationsHandler) Handle(ctx context.Context, q ListReservationsQuery) ([]dto.Reservation, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return nil, err
	}
	var list []domainreservations.Reservation
	if strings.TrimSpace(q.PropertyID) != "" {
		prop, err := support.OwnedProperty(ctx, ds, q.Principal, q.PropertyID)
		if err != nil {
			return nil, err
		}
		list, err = ds.PropertyReservations(ctx, prop.ID)
		if err != nil {
			return nil, err
		}
	} else {
		list, err = ds.Reservations(ctx, q.Principal.UserID)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case strings.TrimSpace(q.Date) != "":
		day, err := daterange.Parse(q.Date)
		if err != nil {
			return nil, err
		}
		list = domainreservations.CoveringDate(day, list)
	case strings.TrimSpace(q.Start) != "" || strings.TrimSpace(q.End) != "":
		rng, err := parseRange(q.Start, q.End)
		if err != nil {
			return nil, err
		}
		list = domainreservations.Intersecting(rng, list)
	}
	return dto.MapReservations(list), nil
}

type ConflictsQuery struct {
	Principal datasource.Principal
}

func (ConflictsQuery) Key() string { return conflictsKey }

// ConflictsHandler reports overlapping pairs left behind by concurrent writers.
type ConflictsHandler struct {
	Sources datasource.Resolver
}

func (h *ConflictsHandler) Handle(ctx context.Context, q ConflictsQuery) ([]dto.Conflict, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return nil, err
	}
	list, err := ds.Reservations(ctx, q.Principal.UserID)
	if err != nil {
		return nil, err
	}
	return dto.MapConflicts(domainreservations.Conflicts(list)), nil
}

func parseRange(start, end string) (daterange.Range, error) {
	s, err := daterange.Parse(start)
	if err != nil {
		return daterange.Range{}, err
	}
	e, err := daterange.Parse(end)
	if err != nil {
		return daterange.Range{}, err
	}
	return daterange.NewRange(s, e)
}

var _ bus.Handler[ListReservationsQuery, []dto.Reservation] = (*ListReservationsHandler)(nil)
var _ bus.Handler[ConflictsQuery, []dto.Conflict] = (*ConflictsHandler)(nil)
