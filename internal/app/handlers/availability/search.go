package availability

import (
	"context"
	"log/slog"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	domainavailability "staycal/internal/domain/availability"
	domainproperties "staycal/internal/domain/properties"
	"staycal/internal/domain/shared/daterange"
)

const searchKey = "availability.search"

type SearchQuery struct {
	Principal datasource.Principal
	Start     string `validate:"required"`
	End       string `validate:"required"`
}

func (SearchQuery) Key() string { return searchKey }

type SearchHandler struct {
	Sources datasource.Resolver
	Logger  *slog.Logger
}

// Handle searches the tenant's active properties. An inverted range is not an
// error; it comes back with the invalid_range outcome.
func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) (dto.AvailabilityResult, error) {
	start, err := daterange.Parse(q.Start)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	end, err := daterange.Parse(q.End)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	props, err := ds.Properties(ctx, q.Principal.UserID)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	active := make([]domainproperties.Property, 0, len(props))
	for _, p := range props {
		if !p.Archived {
			active = append(active, p)
		}
	}
	list, err := ds.Reservations(ctx, q.Principal.UserID)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	res := domainavailability.FindAvailable(active, domainavailability.IndexByProperty(list), start, end)
	if h.Logger != nil {
		h.Logger.Debug("availability searched", "owner_id", q.Principal.UserID, "outcome", res.Outcome, "matches", len(res.Properties))
	}
	return dto.MapSearchResult(res), nil
}

var _ bus.Handler[SearchQuery, dto.AvailabilityResult] = (*SearchHandler)(nil)
