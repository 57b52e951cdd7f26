// Package ics renders a property's reservations as an iCalendar feed.
package ics

import (
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	"staycal/internal/app/policies"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
)

const contentType = "text/calendar; charset=utf-8"

// Encoder writes one all-day VEVENT per reservation. DTEND is exclusive, so
// it is the day after the last reserved day.
type Encoder struct {
	ProductID string
	Domain    string
}

func (e Encoder) ContentType() string { return contentType }

func (e Encoder) Encode(p properties.Property, list []reservations.Reservation) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productID())
	cal.SetXWRCalName(p.Name)
	for _, r := range list {
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", r.ID, e.domain()))
		ev.SetSummary(r.Title)
		if desc := describe(r); desc != "" {
			ev.SetDescription(desc)
		}
		if p.Address != "" {
			ev.SetLocation(p.Address)
		}
		ev.SetAllDayStartAt(r.Date.Time())
		ev.SetAllDayEndAt(r.Last().AddDays(1).Time())
		ev.SetStatus(status(r.Status))
		if !r.CreatedAt.IsZero() {
			ev.SetCreatedTime(r.CreatedAt)
			ev.SetDtStampTime(r.CreatedAt)
		}
		if !r.UpdatedAt.IsZero() {
			ev.SetModifiedAt(r.UpdatedAt)
		}
	}
	return []byte(cal.Serialize()), nil
}

func describe(r reservations.Reservation) string {
	parts := make([]string, 0, 2)
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	switch {
	case r.StartTime != "" && r.EndTime != "":
		parts = append(parts, r.StartTime+"-"+r.EndTime)
	case r.StartTime != "":
		parts = append(parts, "from "+r.StartTime)
	case r.EndTime != "":
		parts = append(parts, "until "+r.EndTime)
	}
	return strings.Join(parts, "\n")
}

func status(s reservations.Status) ical.ObjectStatus {
	switch s {
	case reservations.StatusPending:
		return ical.ObjectStatusTentative
	case reservations.StatusCancelled:
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusConfirmed
	}
}

func (e Encoder) productID() string {
	if e.ProductID != "" {
		return e.ProductID
	}
	return "-//staycal//reservations//EN"
}

func (e Encoder) domain() string {
	if e.Domain != "" {
		return e.Domain
	}
	return "staycal"
}

var _ policies.CalendarEncoder = Encoder{}
