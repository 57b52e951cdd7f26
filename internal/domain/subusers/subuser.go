package subusers

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrIDRequired    = errors.New("subusers: id is required")
	ErrNameRequired  = errors.New("subusers: name is required")
	ErrOwnerRequired = errors.New("subusers: owner is required")
	ErrInvalidEmail  = errors.New("subusers: invalid email")
	ErrNotOwned      = errors.New("subusers: sub-user belongs to another user")
)

type ID string

// SubUser names the person a reservation is made for. It cannot log in.
type SubUser struct {
	ID        ID
	Name      string
	Email     string
	OwnerID   string
	CreatedAt time.Time
}

type CreateParams struct {
	ID      ID
	Name    string
	Email   string
	OwnerID string
	Now     time.Time
}

func New(params CreateParams) (SubUser, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return SubUser{}, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return SubUser{}, ErrNameRequired
	}
	owner := strings.TrimSpace(params.OwnerID)
	if owner == "" {
		return SubUser{}, ErrOwnerRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return SubUser{}, ErrInvalidEmail
		}
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return SubUser{
		ID:        params.ID,
		Name:      name,
		Email:     email,
		OwnerID:   owner,
		CreatedAt: now.UTC(),
	}, nil
}

func (s SubUser) OwnedBy(ownerID string) bool {
	return s.OwnerID != "" && s.OwnerID == ownerID
}
