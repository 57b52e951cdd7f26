package availability

import (
	"context"
	"strings"
	"time"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/palette"
	"staycal/internal/domain/selection"
	"staycal/internal/domain/shared/daterange"
)

const (
	monthViewKey = "availability.month"
	pressDayKey  = "selection.press"
)

// SelectionInput is a selection snapshot as sent back by the client.
type SelectionInput struct {
	State string
	Start string
	End   string
	Date  string
}

func (in SelectionInput) parse() (selection.Selection, error) {
	state, err := selection.ParseState(in.State)
	if err != nil {
		return selection.Selection{}, err
	}
	sel := selection.Selection{State: state}
	for _, f := range []struct {
		raw string
		dst *daterange.Date
	}{{in.Start, &sel.Start}, {in.End, &sel.End}, {in.Date, &sel.Date}} {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		d, err := daterange.Parse(f.raw)
		if err != nil {
			return selection.Selection{}, err
		}
		*f.dst = d
	}
	if err := sel.Validate(); err != nil {
		return selection.Selection{}, err
	}
	return sel, nil
}

type MonthViewQuery struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Month      string
	Selection  SelectionInput
}

func (MonthViewQuery) Key() string { return monthViewKey }

type MonthViewHandler struct {
	Sources datasource.Resolver
	Palette palette.Palette
}

// Handle renders one calendar page. An empty month means the current one.
func (h *MonthViewHandler) Handle(ctx context.Context, q MonthViewQuery) (dto.MonthView, error) {
	month := daterange.Month(time.Now().Year(), time.Now().Month())
	if strings.TrimSpace(q.Month) != "" {
		var err error
		month, err = daterange.ParseMonth(q.Month)
		if err != nil {
			return dto.MonthView{}, err
		}
	}
	sel, err := q.Selection.parse()
	if err != nil {
		return dto.MonthView{}, err
	}
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return dto.MonthView{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, q.Principal, q.PropertyID)
	if err != nil {
		return dto.MonthView{}, err
	}
	list, err := ds.PropertyReservations(ctx, prop.ID)
	if err != nil {
		return dto.MonthView{}, err
	}
	marks := domainavailability.MonthView(prop, list, month, sel, h.Palette)
	return dto.MonthView{
		PropertyID: string(prop.ID),
		Month:      month.Start.Time().Format(daterange.MonthLayout),
		Days:       dto.MapDayMarks(marks),
	}, nil
}

type PressDayQuery struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Current    SelectionInput
	Pressed    string
	Clear      bool
}

func (PressDayQuery) Key() string { return pressDayKey }

// PressDayHandler advances the picker and returns the reservations to list
// under the calendar.
type PressDayHandler struct {
	Sources datasource.Resolver
}

func (h *PressDayHandler) Handle(ctx context.Context, q PressDayQuery) (dto.Selection, error) {
	current, err := q.Current.parse()
	if err != nil {
		return dto.Selection{}, err
	}
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return dto.Selection{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, q.Principal, q.PropertyID)
	if err != nil {
		return dto.Selection{}, err
	}
	list, err := ds.PropertyReservations(ctx, prop.ID)
	if err != nil {
		return dto.Selection{}, err
	}
	next := current.Clear()
	if !q.Clear {
		pressed, err := daterange.Parse(q.Pressed)
		if err != nil {
			return dto.Selection{}, err
		}
		next = current.Press(pressed, list)
	}
	return dto.MapSelection(next, dto.MapReservations(next.Reservations(list))), nil
}

var _ bus.Handler[MonthViewQuery, dto.MonthView] = (*MonthViewHandler)(nil)
var _ bus.Handler[PressDayQuery, dto.Selection] = (*PressDayHandler)(nil)
