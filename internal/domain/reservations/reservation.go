package reservations

import (
	"errors"
	"strings"
	"time"

	"staycal/internal/domain/shared/daterange"
)

var (
	ErrIDRequired       = errors.New("reservations: id is required")
	ErrTitleRequired    = errors.New("reservations: title is required")
	ErrDateRequired     = errors.New("reservations: start date is required")
	ErrEndBeforeStart   = errors.New("reservations: end date is before start date")
	ErrInvalidTime      = errors.New("reservations: time must be HH:MM")
	ErrInvalidStatus    = errors.New("reservations: invalid status")
	ErrPropertyRequired = errors.New("reservations: property is required")
	ErrOwnerRequired    = errors.New("reservations: owner is required")
	ErrOverlapping      = errors.New("reservations: dates overlap an existing reservation")
	ErrNotOwned         = errors.New("reservations: reservation belongs to another user")
)

type ID string

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusConfirmed:
		return StatusConfirmed, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Reservation books a property for Date, or for Date..EndDate inclusive when
// EndDate is set.
type Reservation struct {
	ID          ID
	Title       string
	Description string
	Date        daterange.Date
	EndDate     daterange.Date
	StartTime   string
	EndTime     string
	OwnerID     string
	PropertyID  string
	SubUserID   string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Details struct {
	Title       string
	Description string
	Date        daterange.Date
	EndDate     daterange.Date
	StartTime   string
	EndTime     string
	SubUserID   string
	Status      Status
}

type CreateParams struct {
	ID         ID
	OwnerID    string
	PropertyID string
	Details
	Now time.Time
}

func New(params CreateParams) (Reservation, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return Reservation{}, ErrIDRequired
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return Reservation{}, ErrOwnerRequired
	}
	if strings.TrimSpace(params.PropertyID) == "" {
		return Reservation{}, ErrPropertyRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	r := Reservation{
		ID:         params.ID,
		OwnerID:    strings.TrimSpace(params.OwnerID),
		PropertyID: strings.TrimSpace(params.PropertyID),
		CreatedAt:  now.UTC(),
	}
	if err := r.apply(params.Details, now); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

// Update replaces the editable fields; ownership and property stay fixed.
func (r *Reservation) Update(details Details, now time.Time) error {
	next := *r
	if err := next.apply(details, now); err != nil {
		return err
	}
	*r = next
	return nil
}

func (r *Reservation) apply(d Details, now time.Time) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if d.Date.IsZero() {
		return ErrDateRequired
	}
	if !d.EndDate.IsZero() && d.EndDate.Before(d.Date) {
		return ErrEndBeforeStart
	}
	if err := validateClock(d.StartTime); err != nil {
		return err
	}
	if err := validateClock(d.EndTime); err != nil {
		return err
	}
	status, err := ParseStatus(string(d.Status))
	if err != nil {
		return err
	}
	r.Title = title
	r.Description = strings.TrimSpace(d.Description)
	r.Date = d.Date
	r.EndDate = d.EndDate
	r.StartTime = strings.TrimSpace(d.StartTime)
	r.EndTime = strings.TrimSpace(d.EndTime)
	r.SubUserID = strings.TrimSpace(d.SubUserID)
	r.Status = status
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
	return nil
}

func (r Reservation) HasEndDate() bool { return !r.EndDate.IsZero() }

// Last is the final reserved day.
func (r Reservation) Last() daterange.Date {
	if r.HasEndDate() {
		return r.EndDate
	}
	return r.Date
}

func (r Reservation) Span() daterange.Range {
	return daterange.Range{Start: r.Date, End: r.Last()}
}

// Days counts reserved calendar days.
func (r Reservation) Days() int {
	return r.Span().Days()
}

func (r Reservation) OwnedBy(ownerID string) bool {
	return r.OwnerID != "" && r.OwnerID == ownerID
}

func validateClock(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if _, err := time.Parse("15:04", v); err != nil {
		return ErrInvalidTime
	}
	return nil
}
