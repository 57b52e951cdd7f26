// Package datasource defines the tenant data access port. Handlers never know
// which backend serves a tenant.
package datasource

import (
	"context"
	"errors"

	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/subusers"
	"staycal/internal/domain/user"
)

var (
	ErrNotFound     = errors.New("datasource: not found")
	ErrNoDataSource = errors.New("datasource: no backend configured for role")
)

// DataSource loads and stores a tenant's collections. Reads return snapshots;
// writes are last-write-wins.
type DataSource interface {
	Properties(ctx context.Context, ownerID string) ([]properties.Property, error)
	Property(ctx context.Context, id properties.ID) (properties.Property, error)
	SaveProperty(ctx context.Context, p properties.Property) error
	// DeleteProperty removes the property and its reservations and reports
	// how many reservations went with it.
	DeleteProperty(ctx context.Context, id properties.ID) (int, error)

	Reservations(ctx context.Context, ownerID string) ([]reservations.Reservation, error)
	PropertyReservations(ctx context.Context, propertyID properties.ID) ([]reservations.Reservation, error)
	Reservation(ctx context.Context, id reservations.ID) (reservations.Reservation, error)
	SaveReservation(ctx context.Context, r reservations.Reservation) error
	DeleteReservation(ctx context.Context, id reservations.ID) error

	SubUsers(ctx context.Context, ownerID string) ([]subusers.SubUser, error)
	SaveSubUser(ctx context.Context, s subusers.SubUser) error
	DeleteSubUser(ctx context.Context, id subusers.ID) error
}

// Principal is the caller on whose behalf a command or query runs.
type Principal struct {
	UserID string    `validate:"required"`
	Role   user.Role `validate:"required"`
}

func (p Principal) IsMaster() bool { return p.Role == user.RoleMaster }

// Selector picks the backend for a role: admins keep their data in the local
// blob store, every other role uses the remote document store.
type Selector struct {
	Local  DataSource
	Remote DataSource
}

func (s Selector) For(role user.Role) (DataSource, error) {
	var ds DataSource
	if role == user.RoleAdmin {
		ds = s.Local
	} else {
		ds = s.Remote
	}
	if ds == nil {
		return nil, ErrNoDataSource
	}
	return ds, nil
}

// Resolver is satisfied by Selector and by test doubles.
type Resolver interface {
	For(role user.Role) (DataSource, error)
}

var _ Resolver = Selector{}
