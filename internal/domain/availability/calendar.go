package availability

import (
	"staycal/internal/domain/palette"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/selection"
	"staycal/internal/domain/shared/daterange"
)

const (
	ReservedTextColor = "#333"
	RangeColor        = "#E3F2FD"
	RangeTextColor    = "#007AFF"
	FocusColor        = "#B3D9FF"
	FocusTextColor    = "#000"
	SelectionDotColor = "#007AFF"
)

// DayMark is the rendering annotation for one calendar cell.
type DayMark struct {
	Date          daterange.Date
	Reserved      bool
	ReservationID reservations.ID
	Color         palette.Color
	TextColor     string
	Price         *float64
	PriceLabel    string
	StartingDay   bool
	EndingDay     bool
	Selected      bool
	Marked        bool
	DotColor      string
}

type ViewParams struct {
	Property     properties.Property
	Reservations []reservations.Reservation
	Range        daterange.Range
	Selection    selection.Selection
	Palette      palette.Palette
}

// MonthView annotates every day of the given month.
func MonthView(
	p properties.Property,
	list []reservations.Reservation,
	month daterange.Range,
	sel selection.Selection,
	pal palette.Palette,
) []DayMark {
	return Marks(ViewParams{Property: p, Reservations: list, Range: month, Selection: sel, Palette: pal})
}

// Marks annotates each day of params.Range. Reservation blocks keep their own
// start and end caps even when cut by the range edges. A completed selection
// paints over reservations; a focused day adds a dot on reserved cells and a
// round highlight on free ones. When reservations overlap, the first one in
// list order owns the cell.
func Marks(params ViewParams) []DayMark {
	pal := params.Palette
	if len(pal) == 0 {
		pal = palette.Default
	}
	days := params.Range.Dates()
	out := make([]DayMark, 0, len(days))
	for _, d := range days {
		mark := DayMark{Date: d}
		if price, ok := params.Property.PriceFor(d); ok {
			v := price
			mark.Price = &v
			mark.PriceLabel = properties.FormatPrice(price, params.Property.Pricing.CurrencySymbol())
		}
		if r, ok := reservations.FindReservationForDate(d, params.Reservations); ok {
			mark.Reserved = true
			mark.ReservationID = r.ID
			mark.Color = pal.ColorFor(string(r.ID), r.PropertyID)
			mark.TextColor = ReservedTextColor
			mark.StartingDay = d.Equal(r.Date)
			mark.EndingDay = d.Equal(r.Last())
		}
		overlaySelection(&mark, params.Selection)
		out = append(out, mark)
	}
	return out
}

func overlaySelection(mark *DayMark, sel selection.Selection) {
	if rng, ok := sel.Range(); ok {
		if !rng.Contains(mark.Date) {
			return
		}
		mark.Selected = true
		mark.Color = RangeColor
		mark.TextColor = RangeTextColor
		mark.StartingDay = mark.Date.Equal(rng.Start)
		mark.EndingDay = mark.Date.Equal(rng.End)
		return
	}
	focus, ok := sel.Focus()
	if !ok || !focus.Equal(mark.Date) {
		return
	}
	mark.Selected = true
	if mark.Reserved {
		mark.Marked = true
		mark.DotColor = SelectionDotColor
		return
	}
	mark.Color = FocusColor
	mark.TextColor = FocusTextColor
	mark.StartingDay = true
	mark.EndingDay = true
}
