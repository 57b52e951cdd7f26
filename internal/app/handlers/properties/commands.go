package properties

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	"staycal/internal/app/outbox"
	domainproperties "staycal/internal/domain/properties"
)

const (
	createPropertyKey = "properties.create"
	updatePropertyKey = "properties.update"
	deletePropertyKey = "properties.delete"
	setLockKey        = "properties.set_lock"
	setArchivedKey    = "properties.set_archived"
)

type PropertyPayload struct {
	Name         string   `validate:"required,max=200"`
	Description  string   `validate:"max=2000"`
	Address      string   `validate:"max=500"`
	DefaultPrice *float64 `validate:"omitempty,gt=0"`
	Currency     string   `validate:"max=8"`
}

type CreatePropertyCommand struct {
	Principal  datasource.Principal
	Payload    PropertyPayload
	RequestKey string
}

func (CreatePropertyCommand) Key() string { return createPropertyKey }

// IdempotencyKey scopes the client key to the caller's tenant.
func (c CreatePropertyCommand) IdempotencyKey() string {
	if c.RequestKey == "" {
		return ""
	}
	return c.Principal.UserID + ":" + c.RequestKey
}

func (CreatePropertyCommand) ResultPrototype() any { return &dto.Property{} }

// CreatePropertyHandler fills Currency in when the payload leaves it empty.
type CreatePropertyHandler struct {
	Sources  datasource.Resolver
	Currency string
	Logger   *slog.Logger
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (dto.Property, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	currency := strings.TrimSpace(cmd.Payload.Currency)
	if currency == "" {
		currency = h.Currency
	}
	prop, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           domainproperties.ID(uuid.NewString()),
		Name:         cmd.Payload.Name,
		Description:  cmd.Payload.Description,
		Address:      cmd.Payload.Address,
		OwnerID:      cmd.Principal.UserID,
		DefaultPrice: cmd.Payload.DefaultPrice,
		Currency:     currency,
		Now:          time.Now(),
	})
	if err != nil {
		return dto.Property{}, err
	}
	if err := ds.SaveProperty(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "owner_id", prop.OwnerID)
	}
	return dto.MapProperty(prop), nil
}

type UpdatePropertyCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Payload    PropertyPayload
}

func (UpdatePropertyCommand) Key() string { return updatePropertyKey }

type UpdatePropertyHandler struct {
	Sources datasource.Resolver
	Logger  *slog.Logger
}

func (h *UpdatePropertyHandler) Handle(ctx context.Context, cmd UpdatePropertyCommand) (dto.Property, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	if err := prop.Update(domainproperties.UpdateParams{
		Name:         cmd.Payload.Name,
		Description:  cmd.Payload.Description,
		Address:      cmd.Payload.Address,
		DefaultPrice: cmd.Payload.DefaultPrice,
		Currency:     cmd.Payload.Currency,
		Now:          time.Now(),
	}); err != nil {
		return dto.Property{}, err
	}
	if err := ds.SaveProperty(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property updated", "property_id", prop.ID)
	}
	return dto.MapProperty(prop), nil
}

type DeletePropertyCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
}

func (DeletePropertyCommand) Key() string { return deletePropertyKey }

type DeletePropertyHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

// Handle removes the property together with every reservation on it.
func (h *DeletePropertyHandler) Handle(ctx context.Context, cmd DeletePropertyCommand) (dto.PropertyDeleted, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.PropertyDeleted{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.PropertyDeleted{}, err
	}
	removed, err := ds.DeleteProperty(ctx, prop.ID)
	if err != nil {
		return dto.PropertyDeleted{}, fmt.Errorf("delete property %s: %w", prop.ID, err)
	}
	if err := outbox.Record(ctx, h.Outbox, domainproperties.PropertyDeletedEvent(prop, removed, time.Now())); err != nil {
		return dto.PropertyDeleted{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property deleted", "property_id", prop.ID, "reservations_removed", removed)
	}
	return dto.PropertyDeleted{ID: string(prop.ID), ReservationsRemoved: removed}, nil
}

type SetLockCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Locked     bool
}

func (SetLockCommand) Key() string { return setLockKey }

type SetLockHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

func (h *SetLockHandler) Handle(ctx context.Context, cmd SetLockCommand) (dto.Property, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	now := time.Now()
	prop.SetLocked(cmd.Locked, now)
	if err := ds.SaveProperty(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	if err := outbox.Record(ctx, h.Outbox, domainproperties.LockChangedEvent(prop, now)); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property lock changed", "property_id", prop.ID, "locked", prop.Locked)
	}
	return dto.MapProperty(prop), nil
}

type SetArchivedCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Archived   bool
}

func (SetArchivedCommand) Key() string { return setArchivedKey }

type SetArchivedHandler struct {
	Sources datasource.Resolver
}

func (h *SetArchivedHandler) Handle(ctx context.Context, cmd SetArchivedCommand) (dto.Property, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	prop.SetArchived(cmd.Archived, time.Now())
	if err := ds.SaveProperty(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(prop), nil
}

var _ bus.Handler[CreatePropertyCommand, dto.Property] = (*CreatePropertyHandler)(nil)
var _ bus.Handler[UpdatePropertyCommand, dto.Property] = (*UpdatePropertyHandler)(nil)
var _ bus.Handler[DeletePropertyCommand, dto.PropertyDeleted] = (*DeletePropertyHandler)(nil)
var _ bus.Handler[SetLockCommand, dto.Property] = (*SetLockHandler)(nil)
var _ bus.Handler[SetArchivedCommand, dto.Property] = (*SetArchivedHandler)(nil)
