package reservations

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
	domainreservations "staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
)

const (
	createReservationKey = "reservations.create"
	updateReservationKey = "reservations.update"
	deleteReservationKey = "reservations.delete"
)

type ReservationPayload struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	Date        string `validate:"required"`
	EndDate     string
	StartTime   string
	EndTime     string
	SubUserID   string
	Status      string `validate:"omitempty,oneof=confirmed pending cancelled"`
}

func (p ReservationPayload) details() (domainreservations.Details, error) {
	start, err := daterange.Parse(p.Date)
	if err != nil {
		return domainreservations.Details{}, err
	}
	var end daterange.Date
	if strings.TrimSpace(p.EndDate) != "" {
		end, err = daterange.Parse(p.EndDate)
		if err != nil {
			return domainreservations.Details{}, err
		}
	}
	status, err := domainreservations.ParseStatus(p.Status)
	if err != nil {
		return domainreservations.Details{}, err
	}
	return domainreservations.Details{
		Title:       p.Title,
		Description: p.Description,
		Date:        start,
		EndDate:     end,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		SubUserID:   p.SubUserID,
		Status:      status,
	}, nil
}

type CreateReservationCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Payload    ReservationPayload
	RequestKey string
}

func (CreateReservationCommand) Key() string { return createReservationKey }

// IdempotencyKey scopes the client key to the caller's tenant.
func (c CreateReservationCommand) IdempotencyKey() string {
	if c.RequestKey == "" {
		return ""
	}
	return c.Principal.UserID + ":" + c.RequestKey
}

func (CreateReservationCommand) ResultPrototype() any { return &dto.Reservation{} }

type CreateReservationHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

// Handle books the property. The overlap check runs against the snapshot
// loaded here; two concurrent writers can both pass it.
func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (dto.Reservation, error) {
	details, err := cmd.Payload.details()
	if err != nil {
		return dto.Reservation{}, err
	}
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Reservation{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Reservation{}, err
	}
	if prop.Locked {
		return dto.Reservation{}, domainproperties.ErrLocked
	}
	now := time.Now()
	res, err := domainreservations.New(domainreservations.CreateParams{
		ID:         domainreservations.ID(uuid.NewString()),
		OwnerID:    cmd.Principal.UserID,
		PropertyID: string(prop.ID),
		Details:    details,
		Now:        now,
	})
	if err != nil {
		return dto.Reservation{}, err
	}
	existing, err := ds.PropertyReservations(ctx, prop.ID)
	if err != nil {
		return dto.Reservation{}, err
	}
	if clash, found := domainreservations.FirstOverlap(res.Span(), existing); found {
		return dto.Reservation{}, fmt.Errorf("%w: %s (%s)", domainreservations.ErrOverlapping, clash.ID, clash.Span())
	}
	if err := ds.SaveReservation(ctx, res); err != nil {
		return dto.Reservation{}, err
	}
	if err := outbox.Record(ctx, h.Outbox, domainreservations.CreatedEvent(res, now)); err != nil {
		return dto.Reservation{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("reservation created", "reservation_id", res.ID, "property_id", res.PropertyID, "span", res.Span().String())
	}
	return dto.MapReservation(res), nil
}

type UpdateReservationCommand struct {
	Principal     datasource.Principal
	ReservationID string `validate:"required"`
	Payload       ReservationPayload
}

func (UpdateReservationCommand) Key() string { return updateReservationKey }

type UpdateReservationHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

func (h *UpdateReservationHandler) Handle(ctx context.Context, cmd UpdateReservationCommand) (dto.Reservation, error) {
	details, err := cmd.Payload.details()
	if err != nil {
		return dto.Reservation{}, err
	}
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Reservation{}, err
	}
	res, err := ownedReservation(ctx, ds, cmd.Principal, cmd.ReservationID)
	if err != nil {
		return dto.Reservation{}, err
	}
	now := time.Now()
	if err := res.Update(details, now); err != nil {
		return dto.Reservation{}, err
	}
	existing, err := ds.PropertyReservations(ctx, domainproperties.ID(res.PropertyID))
	if err != nil {
		return dto.Reservation{}, err
	}
	others := domainreservations.Without(res.ID, existing)
	if clash, found := domainreservations.FirstOverlap(res.Span(), others); found {
		return dto.Reservation{}, fmt.Errorf("%w: %s (%s)", domainreservations.ErrOverlapping, clash.ID, clash.Span())
	}
	if err := ds.SaveReservation(ctx, res); err != nil {
		return dto.Reservation{}, err
	}
	if err := outbox.Record(ctx, h.Outbox, domainreservations.UpdatedEvent(res, now)); err != nil {
		return dto.Reservation{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("reservation updated", "reservation_id", res.ID, "status", res.Status)
	}
	return dto.MapReservation(res), nil
}

type DeleteReservationCommand struct {
	Principal     datasource.Principal
	ReservationID string `validate:"required"`
}

func (DeleteReservationCommand) Key() string { return deleteReservationKey }

type DeleteReservationHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

func (h *DeleteReservationHandler) Handle(ctx context.Context, cmd DeleteReservationCommand) (dto.Reservation, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Reservation{}, err
	}
	res, err := ownedReservation(ctx, ds, cmd.Principal, cmd.ReservationID)
	if err != nil {
		return dto.Reservation{}, err
	}
	if err := ds.DeleteReservation(ctx, res.ID); err != nil {
		return dto.Reservation{}, err
	}
	if err := outbox.Record(ctx, h.Outbox, domainreservations.DeletedEvent(res, time.Now())); err != nil {
		return dto.Reservation{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("reservation deleted", "reservation_id", res.ID, "property_id", res.PropertyID)
	}
	return dto.MapReservation(res), nil
}

func ownedReservation(ctx context.Context, ds datasource.DataSource, p datasource.Principal, id string) (domainreservations.Reservation, error) {
	res, err := ds.Reservation(ctx, domainreservations.ID(strings.TrimSpace(id)))
	if err != nil {
		return domainreservations.Reservation{}, err
	}
	if !res.OwnedBy(p.UserID) {
		return domainreservations.Reservation{}, domainreservations.ErrNotOwned
	}
	return res, nil
}

var _ bus.Handler[CreateReservationCommand, dto.Reservation] = (*CreateReservationHandler)(nil)
var _ bus.Handler[UpdateReservationCommand, dto.Reservation] = (*UpdateReservationHandler)(nil)
var _ bus.Handler[DeleteReservationCommand, dto.Reservation] = (*DeleteReservationHandler)(nil)
