package dto

import (
	"time"

	"staycal/internal/domain/palette"
	"staycal/internal/domain/reservations"
)

type Reservation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	EndDate     string    `json:"end_date,omitempty"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	OwnerID     string    `json:"owner_id"`
	PropertyID  string    `json:"property_id"`
	SubUserID   string    `json:"sub_user_id,omitempty"`
	Status      string    `json:"status"`
	Days        int       `json:"days"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func MapReservation(r reservations.Reservation) Reservation {
	return Reservation{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date.String(),
		EndDate:     r.EndDate.String(),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		OwnerID:     r.OwnerID,
		PropertyID:  r.PropertyID,
		SubUserID:   r.SubUserID,
		Status:      string(r.Status),
		Days:        r.Days(),
		Color:       string(palette.ColorFor(string(r.ID), r.PropertyID)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func MapReservations(list []reservations.Reservation) []Reservation {
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		out = append(out, MapReservation(r))
	}
	return out
}

type Conflict struct {
	PropertyID string      `json:"property_id"`
	First      Reservation `json:"first"`
	Second     Reservation `json:"second"`
	Start      string      `json:"start"`
	End        string      `json:"end"`
}

func MapConflicts(list []reservations.Conflict) []Conflict {
	out := make([]Conflict, 0, len(list))
	for _, c := range list {
		out = append(out, Conflict{
			PropertyID: c.PropertyID,
			First:      MapReservation(c.First),
			Second:     MapReservation(c.Second),
			Start:      c.Shared.Start.String(),
			End:        c.Shared.End.String(),
		})
	}
	return out
}
