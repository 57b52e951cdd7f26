package properties

import (
	"context"
	"log/slog"
	"time"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	"staycal/internal/app/outbox"
	domainproperties "staycal/internal/domain/properties"
	"staycal/internal/domain/shared/daterange"
)

const (
	setPricesKey   = "properties.set_prices"
	clearPricesKey = "properties.clear_prices"
)

// SetPricesCommand carries the raw price text so the "must be a positive
// number" rule is applied here rather than in the resolver.
type SetPricesCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Start      string `validate:"required"`
	End        string `validate:"required"`
	Price      string `validate:"required"`
}

func (SetPricesCommand) Key() string { return setPricesKey }

type SetPricesHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

func (h *SetPricesHandler) Handle(ctx context.Context, cmd SetPricesCommand) (dto.Property, error) {
	price, err := domainproperties.ParsePrice(cmd.Price)
	if err != nil {
		return dto.Property{}, err
	}
	rng, err := parseRange(cmd.Start, cmd.End)
	if err != nil {
		return dto.Property{}, err
	}
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	now := time.Now()
	updated := domainproperties.SetPriceForRange(prop, rng.Start, rng.End, price)
	updated.UpdatedAt = now.UTC()
	if err := ds.SaveProperty(ctx, updated); err != nil {
		return dto.Property{}, err
	}
	ev := domainproperties.PricesUpdatedEvent(updated, rng.Start.String(), rng.End.String(), &price, now)
	if err := outbox.Record(ctx, h.Outbox, ev); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("daily prices set", "property_id", prop.ID, "range", rng.String(), "days", rng.Days(), "price", price)
	}
	return dto.MapProperty(updated), nil
}

type ClearPricesCommand struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
	Start      string `validate:"required"`
	End        string `validate:"required"`
}

func (ClearPricesCommand) Key() string { return clearPricesKey }

type ClearPricesHandler struct {
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

func (h *ClearPricesHandler) Handle(ctx context.Context, cmd ClearPricesCommand) (dto.Property, error) {
	rng, err := parseRange(cmd.Start, cmd.End)
	if err != nil {
		return dto.Property{}, err
	}
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	now := time.Now()
	updated := domainproperties.ClearPriceForRange(prop, rng.Start, rng.End)
	updated.UpdatedAt = now.UTC()
	if err := ds.SaveProperty(ctx, updated); err != nil {
		return dto.Property{}, err
	}
	ev := domainproperties.PricesUpdatedEvent(updated, rng.Start.String(), rng.End.String(), nil, now)
	if err := outbox.Record(ctx, h.Outbox, ev); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("daily prices cleared", "property_id", prop.ID, "range", rng.String())
	}
	return dto.MapProperty(updated), nil
}

func parseRange(start, end string) (daterange.Range, error) {
	s, err := daterange.Parse(start)
	if err != nil {
		return daterange.Range{}, err
	}
	e, err := daterange.Parse(end)
	if err != nil {
		return daterange.Range{}, err
	}
	return daterange.NewRange(s, e)
}

var _ bus.Handler[SetPricesCommand, dto.Property] = (*SetPricesHandler)(nil)
var _ bus.Handler[ClearPricesCommand, dto.Property] = (*ClearPricesHandler)(nil)
