package dto

import (
	"staycal/internal/domain/availability"
	"staycal/internal/domain/selection"
)

type DayMark struct {
	Date          string   `json:"date"`
	Reserved      bool     `json:"reserved"`
	ReservationID string   `json:"reservation_id,omitempty"`
	Color         string   `json:"color,omitempty"`
	TextColor     string   `json:"text_color,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	PriceLabel    string   `json:"price_label,omitempty"`
	StartingDay   bool     `json:"starting_day"`
	EndingDay     bool     `json:"ending_day"`
	Selected      bool     `json:"selected"`
	Marked        bool     `json:"marked"`
	DotColor      string   `json:"dot_color,omitempty"`
}

type MonthView struct {
	PropertyID string    `json:"property_id"`
	Month      string    `json:"month"`
	Days       []DayMark `json:"days"`
}

func MapDayMarks(marks []availability.DayMark) []DayMark {
	out := make([]DayMark, 0, len(marks))
	for _, m := range marks {
		out = append(out, DayMark{
			Date:          m.Date.String(),
			Reserved:      m.Reserved,
			ReservationID: string(m.ReservationID),
			Color:         string(m.Color),
			TextColor:     m.TextColor,
			Price:         m.Price,
			PriceLabel:    m.PriceLabel,
			StartingDay:   m.StartingDay,
			EndingDay:     m.EndingDay,
			Selected:      m.Selected,
			Marked:        m.Marked,
			DotColor:      m.DotColor,
		})
	}
	return out
}

type Selection struct {
	State        string        `json:"state"`
	Start        string        `json:"start,omitempty"`
	End          string        `json:"end,omitempty"`
	Date         string        `json:"date,omitempty"`
	Reservations []Reservation `json:"reservations"`
}

func MapSelection(s selection.Selection, list []Reservation) Selection {
	if list == nil {
		list = []Reservation{}
	}
	return Selection{
		State:        string(s.State),
		Start:        s.Start.String(),
		End:          s.End.String(),
		Date:         s.Date.String(),
		Reservations: list,
	}
}

type AvailabilityResult struct {
	Outcome    string     `json:"outcome"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Properties []Property `json:"properties"`
}

func MapSearchResult(res availability.SearchResult) AvailabilityResult {
	return AvailabilityResult{
		Outcome:    string(res.Outcome),
		Start:      res.Start.String(),
		End:        res.End.String(),
		Properties: MapProperties(res.Properties),
	}
}
