// Package handlers registers every command and query handler on the buses.
package handlers

import (
	"errors"
	"log/slog"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/availability"
	"staycal/internal/app/handlers/properties"
	"staycal/internal/app/handlers/reservations"
	"staycal/internal/app/handlers/subusers"
	"staycal/internal/app/handlers/users"
	"staycal/internal/app/outbox"
	"staycal/internal/app/policies"
	"staycal/internal/domain/palette"
	domainuser "staycal/internal/domain/user"
)

type Deps struct {
	Sources  datasource.Resolver
	Users    domainuser.Repository
	Outbox   outbox.Outbox
	Images   policies.ImageStore
	Calendar policies.CalendarEncoder
	Palette  palette.Palette
	Currency string
	Logger   *slog.Logger
}

// Register wires the handlers. Images may be nil; the upload command then
// fails with ErrImageStoreUnavailable.
func Register(commands *bus.Commands, queries *bus.Queries, d Deps) error {
	if d.Sources == nil || d.Users == nil || d.Calendar == nil {
		return errors.New("handlers: sources, users and calendar encoder are required")
	}
	pal := d.Palette
	if len(pal) == 0 {
		pal = palette.Default
	}
	log := d.Logger

	return errors.Join(
		bus.HandleCommand[properties.CreatePropertyCommand, dto.Property](commands, &properties.CreatePropertyHandler{Sources: d.Sources, Currency: d.Currency, Logger: log}),
		bus.HandleCommand[properties.UpdatePropertyCommand, dto.Property](commands, &properties.UpdatePropertyHandler{Sources: d.Sources, Logger: log}),
		bus.HandleCommand[properties.DeletePropertyCommand, dto.PropertyDeleted](commands, &properties.DeletePropertyHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[properties.SetLockCommand, dto.Property](commands, &properties.SetLockHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[properties.SetArchivedCommand, dto.Property](commands, &properties.SetArchivedHandler{Sources: d.Sources}),
		bus.HandleCommand[properties.SetPricesCommand, dto.Property](commands, &properties.SetPricesHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[properties.ClearPricesCommand, dto.Property](commands, &properties.ClearPricesHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[properties.SetImageCommand, dto.Property](commands, &properties.SetImageHandler{Sources: d.Sources, Images: d.Images, Logger: log}),
		bus.HandleCommand[reservations.CreateReservationCommand, dto.Reservation](commands, &reservations.CreateReservationHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[reservations.UpdateReservationCommand, dto.Reservation](commands, &reservations.UpdateReservationHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[reservations.DeleteReservationCommand, dto.Reservation](commands, &reservations.DeleteReservationHandler{Sources: d.Sources, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[subusers.CreateSubUserCommand, dto.SubUser](commands, &subusers.CreateSubUserHandler{Sources: d.Sources, Logger: log}),
		bus.HandleCommand[subusers.DeleteSubUserCommand, dto.SubUser](commands, &subusers.DeleteSubUserHandler{Sources: d.Sources}),
		bus.HandleCommand[users.ModerateUserCommand, dto.UserProfile](commands, &users.ModerateUserHandler{Users: d.Users, Outbox: d.Outbox, Logger: log}),
		bus.HandleCommand[availability.ScanConflictsCommand, availability.ScanReport](commands, &availability.ScanConflictsHandler{Users: d.Users, Sources: d.Sources, Outbox: d.Outbox, Logger: log}),

		bus.HandleQuery[properties.ListPropertiesQuery, []dto.Property](queries, &properties.ListPropertiesHandler{Sources: d.Sources}),
		bus.HandleQuery[properties.GetPropertyQuery, dto.Property](queries, &properties.GetPropertyHandler{Sources: d.Sources}),
		bus.HandleQuery[properties.ExportCalendarQuery, properties.CalendarFile](queries, &properties.ExportCalendarHandler{Sources: d.Sources, Encoder: d.Calendar}),
		bus.HandleQuery[reservations.ListReservationsQuery, []dto.Reservation](queries, &reservations.ListReservationsHandler{Sources: d.Sources}),
		bus.HandleQuery[reservations.ConflictsQuery, []dto.Conflict](queries, &reservations.ConflictsHandler{Sources: d.Sources}),
		bus.HandleQuery[availability.SearchQuery, dto.AvailabilityResult](queries, &availability.SearchHandler{Sources: d.Sources, Logger: log}),
		bus.HandleQuery[availability.MonthViewQuery, dto.MonthView](queries, &availability.MonthViewHandler{Sources: d.Sources, Palette: pal}),
		bus.HandleQuery[availability.PressDayQuery, dto.Selection](queries, &availability.PressDayHandler{Sources: d.Sources}),
		bus.HandleQuery[subusers.ListSubUsersQuery, []dto.SubUser](queries, &subusers.ListSubUsersHandler{Sources: d.Sources}),
		bus.HandleQuery[users.ListUsersQuery, []dto.UserProfile](queries, &users.ListUsersHandler{Users: d.Users}),
	)
}
