package docstore

import (
	"time"

	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	"staycal/internal/domain/subusers"
	"staycal/internal/domain/user"
)

type pricingDocument struct {
	DefaultPrice *float64          `bson:"default_price,omitempty"`
	Currency     string            `bson:"currency"`
	DailyPrices  map[string]float64 `bson:"daily_prices"`
}

type propertyDocument struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Address     string          `bson:"address"`
	OwnerID     string          `bson:"owner_id"`
	ImageURL    string          `bson:"image_url"`
	Locked      bool            `bson:"locked"`
	Archived    bool            `bson:"archived"`
	Pricing     pricingDocument `bson:"pricing"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

func newPropertyDocument(p properties.Property) propertyDocument {
	c := p.Clone()
	return propertyDocument{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		OwnerID:     c.OwnerID,
		ImageURL:    c.ImageURL,
		Locked:      c.Locked,
		Archived:    c.Archived,
		Pricing: pricingDocument{
			DefaultPrice: c.Pricing.DefaultPrice,
			Currency:     c.Pricing.Currency,
			DailyPrices:  c.Pricing.DailyPrices,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// mutableFields lists what an update may change; ownership and creation
// time are written once.
func (d propertyDocument) mutableFields() map[string]any {
	return map[string]any{
		"name":        d.Name,
		"description": d.Description,
		"address":     d.Address,
		"image_url":   d.ImageURL,
		"locked":      d.Locked,
		"archived":    d.Archived,
		"pricing":     d.Pricing,
		"updated_at":  d.UpdatedAt,
	}
}

func (d propertyDocument) toDomain() properties.Property {
	daily := make(map[string]float64, len(d.Pricing.DailyPrices))
	for k, v := range d.Pricing.DailyPrices {
		daily[k] = v
	}
	return properties.Property{
		ID:          properties.ID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Address:     d.Address,
		OwnerID:     d.OwnerID,
		ImageURL:    d.ImageURL,
		Locked:      d.Locked,
		Archived:    d.Archived,
		Pricing: properties.Pricing{
			DefaultPrice: d.Pricing.DefaultPrice,
			Currency:     d.Pricing.Currency,
			DailyPrices:  daily,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type reservationDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Date        string    `bson:"date"`
	EndDate     string    `bson:"end_date,omitempty"`
	StartTime   string    `bson:"start_time,omitempty"`
	EndTime     string    `bson:"end_time,omitempty"`
	OwnerID     string    `bson:"owner_id"`
	PropertyID  string    `bson:"property_id"`
	SubUserID   string    `bson:"sub_user_id,omitempty"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newReservationDocument(r reservations.Reservation) reservationDocument {
	doc := reservationDocument{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date.String(),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		OwnerID:     r.OwnerID,
		PropertyID:  r.PropertyID,
		SubUserID:   r.SubUserID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.HasEndDate() {
		doc.EndDate = r.EndDate.String()
	}
	return doc
}

func (d reservationDocument) toDomain() (reservations.Reservation, error) {
	start, err := daterange.Parse(d.Date)
	if err != nil {
		return reservations.Reservation{}, err
	}
	var end daterange.Date
	if d.EndDate != "" {
		if end, err = daterange.Parse(d.EndDate); err != nil {
			return reservations.Reservation{}, err
		}
	}
	status, err := reservations.ParseStatus(d.Status)
	if err != nil {
		return reservations.Reservation{}, err
	}
	return reservations.Reservation{
		ID:          reservations.ID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Date:        start,
		EndDate:     end,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		OwnerID:     d.OwnerID,
		PropertyID:  d.PropertyID,
		SubUserID:   d.SubUserID,
		Status:      status,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

type subUserDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email,omitempty"`
	OwnerID   string    `bson:"owner_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func newSubUserDocument(s subusers.SubUser) subUserDocument {
	return subUserDocument{
		ID:        string(s.ID),
		Name:      s.Name,
		Email:     s.Email,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	}
}

func (d subUserDocument) toDomain() subusers.SubUser {
	return subusers.SubUser{
		ID:        subusers.ID(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Status       string    `bson:"status"`
	Active       bool      `bson:"active"`
	LastLoginAt  time.Time `bson:"last_login_at,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		Active:       u.Active,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() (*user.User, error) {
	role, err := user.ParseRole(d.Role)
	if err != nil {
		return nil, err
	}
	status, err := user.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		ID:           user.ID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		Status:       status,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if !d.LastLoginAt.IsZero() {
		u.LastLoginAt = d.LastLoginAt.UTC()
	}
	return u, nil
}
