package blob

import (
	"fmt"
	"time"

	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	"staycal/internal/domain/subusers"
)

type pricingRecord struct {
	DefaultPrice *float64          `json:"defaultPrice,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	DailyPrices  map[string]float64 `json:"dailyPrices,omitempty"`
}

type propertyRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Address     string        `json:"address,omitempty"`
	UserID      string        `json:"userId"`
	Image       string        `json:"image,omitempty"`
	IsLocked    bool          `json:"isLocked,omitempty"`
	IsArchived  bool          `json:"isArchived,omitempty"`
	Pricing     pricingRecord `json:"pricing"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func fromProperty(p properties.Property) propertyRecord {
	c := p.Clone()
	return propertyRecord{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		UserID:      c.OwnerID,
		Image:       c.ImageURL,
		IsLocked:    c.Locked,
		IsArchived:  c.Archived,
		Pricing: pricingRecord{
			DefaultPrice: c.Pricing.DefaultPrice,
			Currency:     c.Pricing.Currency,
			DailyPrices:  c.Pricing.DailyPrices,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r propertyRecord) toDomain() (properties.Property, error) {
	if r.ID == "" || r.UserID == "" {
		return properties.Property{}, fmt.Errorf("blob: property record %q missing id or owner", r.ID)
	}
	for day := range r.Pricing.DailyPrices {
		if _, err := daterange.Parse(day); err != nil {
			return properties.Property{}, fmt.Errorf("blob: property %s price key: %w", r.ID, err)
		}
	}
	daily := make(map[string]float64, len(r.Pricing.DailyPrices))
	for k, v := range r.Pricing.DailyPrices {
		daily[k] = v
	}
	return properties.Property{
		ID:          properties.ID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		OwnerID:     r.UserID,
		ImageURL:    r.Image,
		Locked:      r.IsLocked,
		Archived:    r.IsArchived,
		Pricing: properties.Pricing{
			DefaultPrice: r.Pricing.DefaultPrice,
			Currency:     r.Pricing.Currency,
			DailyPrices:  daily,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type reservationRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	EndDate     string    `json:"endDate,omitempty"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	UserID      string    `json:"userId"`
	PropertyID  string    `json:"propertyId"`
	SubUserID   string    `json:"subUserId,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func fromReservation(r reservations.Reservation) reservationRecord {
	rec := reservationRecord{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date.String(),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		UserID:      r.OwnerID,
		PropertyID:  r.PropertyID,
		SubUserID:   r.SubUserID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.HasEndDate() {
		rec.EndDate = r.EndDate.String()
	}
	return rec
}

func (r reservationRecord) toDomain() (reservations.Reservation, error) {
	start, err := daterange.Parse(r.Date)
	if err != nil {
		return reservations.Reservation{}, fmt.Errorf("blob: reservation %s date: %w", r.ID, err)
	}
	var end daterange.Date
	if r.EndDate != "" {
		if end, err = daterange.Parse(r.EndDate); err != nil {
			return reservations.Reservation{}, fmt.Errorf("blob: reservation %s end date: %w", r.ID, err)
		}
	}
	status, err := reservations.ParseStatus(r.Status)
	if err != nil {
		return reservations.Reservation{}, fmt.Errorf("blob: reservation %s: %w", r.ID, err)
	}
	return reservations.Reservation{
		ID:          reservations.ID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        start,
		EndDate:     end,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		OwnerID:     r.UserID,
		PropertyID:  r.PropertyID,
		SubUserID:   r.SubUserID,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

type subUserRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	ParentUserID string    `json:"parentUserId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func fromSubUser(s subusers.SubUser) subUserRecord {
	return subUserRecord{
		ID:           string(s.ID),
		Name:         s.Name,
		Email:        s.Email,
		ParentUserID: s.OwnerID,
		CreatedAt:    s.CreatedAt,
	}
}

func (r subUserRecord) toDomain() (subusers.SubUser, error) {
	if r.ID == "" || r.ParentUserID == "" {
		return subusers.SubUser{}, fmt.Errorf("blob: sub-user record %q missing id or parent", r.ID)
	}
	return subusers.SubUser{
		ID:        subusers.ID(r.ID),
		Name:      r.Name,
		Email:     r.Email,
		OwnerID:   r.ParentUserID,
		CreatedAt: r.CreatedAt,
	}, nil
}
