package properties

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired    = errors.New("properties: id is required")
	ErrNameRequired  = errors.New("properties: name is required")
	ErrOwnerRequired = errors.New("properties: owner is required")
	ErrNotOwned      = errors.New("properties: property belongs to another user")
	ErrLocked        = errors.New("properties: property is locked for new reservations")
)

// DefaultCurrency is the symbol used when a property does not configure one.
const DefaultCurrency = "₺"

type ID string

// Property is a bookable unit owned by a single tenant.
type Property struct {
	ID          ID
	Name        string
	Description string
	Address     string
	OwnerID     string
	ImageURL    string
	Locked      bool
	Archived    bool
	Pricing     Pricing
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID           ID
	Name         string
	Description  string
	Address      string
	OwnerID      string
	DefaultPrice *float64
	Currency     string
	Now          time.Time
}

func NewProperty(params CreateParams) (Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return Property{}, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Property{}, ErrNameRequired
	}
	owner := strings.TrimSpace(params.OwnerID)
	if owner == "" {
		return Property{}, ErrOwnerRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	currency := strings.TrimSpace(params.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return Property{
		ID:          params.ID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Address:     strings.TrimSpace(params.Address),
		OwnerID:     owner,
		Pricing: Pricing{
			DefaultPrice: copyPrice(params.DefaultPrice),
			Currency:     currency,
			DailyPrices:  map[string]float64{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type UpdateParams struct {
	Name         string
	Description  string
	Address      string
	DefaultPrice *float64
	Currency     string
	Now          time.Time
}

// Update replaces the editable fields while keeping the daily overrides.
func (p *Property) Update(params UpdateParams) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return ErrNameRequired
	}
	p.Name = name
	p.Description = strings.TrimSpace(params.Description)
	p.Address = strings.TrimSpace(params.Address)
	p.Pricing.DefaultPrice = copyPrice(params.DefaultPrice)
	if c := strings.TrimSpace(params.Currency); c != "" {
		p.Pricing.Currency = c
	}
	p.touch(params.Now)
	return nil
}

func (p *Property) SetLocked(locked bool, now time.Time) {
	p.Locked = locked
	p.touch(now)
}

func (p *Property) SetArchived(archived bool, now time.Time) {
	p.Archived = archived
	p.touch(now)
}

func (p *Property) SetImage(url string, now time.Time) {
	p.ImageURL = strings.TrimSpace(url)
	p.touch(now)
}

func (p Property) OwnedBy(ownerID string) bool {
	return p.OwnerID != "" && p.OwnerID == ownerID
}

// Clone returns a deep copy so callers can transform without aliasing the override map.
func (p Property) Clone() Property {
	out := p
	out.Pricing = p.Pricing.clone()
	return out
}

func (p *Property) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}

func copyPrice(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
