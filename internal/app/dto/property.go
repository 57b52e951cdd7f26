package dto

import (
	"time"

	"staycal/internal/domain/properties"
)

type Pricing struct {
	DefaultPrice *float64           `json:"default_price,omitempty"`
	Currency     string             `json:"currency"`
	DailyPrices  map[string]float64 `json:"daily_prices"`
}

type Property struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	OwnerID     string    `json:"owner_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	Locked      bool      `json:"locked"`
	Archived    bool      `json:"archived"`
	Pricing     Pricing   `json:"pricing"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func MapProperty(p properties.Property) Property {
	daily := make(map[string]float64, len(p.Pricing.DailyPrices))
	for k, v := range p.Pricing.DailyPrices {
		daily[k] = v
	}
	var def *float64
	if p.Pricing.DefaultPrice != nil {
		v := *p.Pricing.DefaultPrice
		def = &v
	}
	return Property{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		OwnerID:     p.OwnerID,
		ImageURL:    p.ImageURL,
		Locked:      p.Locked,
		Archived:    p.Archived,
		Pricing: Pricing{
			DefaultPrice: def,
			Currency:     p.Pricing.CurrencySymbol(),
			DailyPrices:  daily,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func MapProperties(list []properties.Property) []Property {
	out := make([]Property, 0, len(list))
	for _, p := range list {
		out = append(out, MapProperty(p))
	}
	return out
}

type PropertyDeleted struct {
	ID                  string `json:"id"`
	ReservationsRemoved int    `json:"reservations_removed"`
}
