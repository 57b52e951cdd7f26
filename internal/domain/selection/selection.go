// Package selection models the two-press date range picker of the property
// calendar.
package selection

import (
	"errors"
	"strings"

	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
)

var ErrInvalidState = errors.New("selection: invalid state")

type State string

const (
	StateEmpty                      State = "empty"
	StateStartSelected              State = "start_selected"
	StateRangeSelected              State = "range_selected"
	StateSingleReservedDateSelected State = "single_reserved_date_selected"
)

func ParseState(raw string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StateEmpty:
		return StateEmpty, nil
	case StateStartSelected:
		return StateStartSelected, nil
	case StateRangeSelected:
		return StateRangeSelected, nil
	case StateSingleReservedDateSelected:
		return StateSingleReservedDateSelected, nil
	default:
		return "", ErrInvalidState
	}
}

// Selection is an immutable snapshot of the picker. Start is set in
// StartSelected and RangeSelected, End only in RangeSelected and Date only in
// SingleReservedDateSelected.
type Selection struct {
	State State          `json:"state"`
	Start daterange.Date `json:"start"`
	End   daterange.Date `json:"end"`
	Date  daterange.Date `json:"date"`
}

func Empty() Selection { return Selection{State: StateEmpty} }

func StartAt(d daterange.Date) Selection {
	return Selection{State: StateStartSelected, Start: d}
}

func RangeOf(start, end daterange.Date) Selection {
	return Selection{State: StateRangeSelected, Start: start, End: end}
}

func ReservedDate(d daterange.Date) Selection {
	return Selection{State: StateSingleReservedDateSelected, Date: d}
}

// Press applies a day press against the property's reservations.
//
// A reserved day always collapses to a single-date selection. With a start in
// place, an earlier day restarts the selection from that day, and a later day
// completes the range only if no reservation falls inside start..day;
// otherwise the pressed day becomes the new start. Completed ranges are never
// extended.
func (s Selection) Press(day daterange.Date, existing []reservations.Reservation) Selection {
	if reservations.IsDateReserved(day, existing) {
		return ReservedDate(day)
	}
	if s.State != StateStartSelected || s.Start.IsZero() {
		return StartAt(day)
	}
	if day.Before(s.Start) {
		return StartAt(day)
	}
	candidate := daterange.Range{Start: s.Start, End: day}
	if !reservations.RangeIsFree(candidate, existing) {
		return StartAt(day)
	}
	return RangeOf(s.Start, day)
}

func (s Selection) Clear() Selection { return Empty() }

// Range returns the completed range, if any.
func (s Selection) Range() (daterange.Range, bool) {
	if s.State != StateRangeSelected {
		return daterange.Range{}, false
	}
	return daterange.Range{Start: s.Start, End: s.End}, true
}

// Focus is the single highlighted day for StartSelected and
// SingleReservedDateSelected.
func (s Selection) Focus() (daterange.Date, bool) {
	switch s.State {
	case StateStartSelected:
		return s.Start, true
	case StateSingleReservedDateSelected:
		return s.Date, true
	default:
		return daterange.Date{}, false
	}
}

// Reservations lists what the panel below the calendar shows for the current
// selection: everything intersecting a completed range, or everything covering
// the focused day.
func (s Selection) Reservations(existing []reservations.Reservation) []reservations.Reservation {
	if rng, ok := s.Range(); ok {
		return reservations.Intersecting(rng, existing)
	}
	if day, ok := s.Focus(); ok {
		return reservations.CoveringDate(day, existing)
	}
	return []reservations.Reservation{}
}

// Validate checks that the fields match the state, for snapshots coming back
// from clients.
func (s Selection) Validate() error {
	switch s.State {
	case StateEmpty:
		return nil
	case StateStartSelected:
		if s.Start.IsZero() {
			return ErrInvalidState
		}
	case StateRangeSelected:
		if s.Start.IsZero() || s.End.IsZero() || s.End.Before(s.Start) {
			return ErrInvalidState
		}
	case StateSingleReservedDateSelected:
		if s.Date.IsZero() {
			return ErrInvalidState
		}
	default:
		return ErrInvalidState
	}
	return nil
}
