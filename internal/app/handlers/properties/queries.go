package properties

import (
	"context"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	"staycal/internal/app/policies"
)

const (
	listPropertiesKey = "properties.list"
	getPropertyKey    = "properties.get"
	exportCalendarKey = "calendar.ics"
)

type ListPropertiesQuery struct {
	Principal       datasource.Principal
	IncludeArchived bool
}

func (ListPropertiesQuery) Key() string { return listPropertiesKey }

type ListPropertiesHandler struct {
	Sources datasource.Resolver
}

func (h *ListPropertiesHandler) Handle(ctx context.Context, q ListPropertiesQuery) ([]dto.Property, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return nil, err
	}
	list, err := ds.Properties(ctx, q.Principal.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Property, 0, len(list))
	for _, p := range list {
		if p.Archived && !q.IncludeArchived {
			continue
		}
		out = append(out, dto.MapProperty(p))
	}
	return out, nil
}

type GetPropertyQuery struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
}

func (GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	Sources datasource.Resolver
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.Property, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, q.Principal, q.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(prop), nil
}

type ExportCalendarQuery struct {
	Principal  datasource.Principal
	PropertyID string `validate:"required"`
}

func (ExportCalendarQuery) Key() string { return exportCalendarKey }

type CalendarFile struct {
	Name        string
	ContentType string
	Body        []byte
}

type ExportCalendarHandler struct {
	Sources datasource.Resolver
	Encoder policies.CalendarEncoder
}

func (h *ExportCalendarHandler) Handle(ctx context.Context, q ExportCalendarQuery) (CalendarFile, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return CalendarFile{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, q.Principal, q.PropertyID)
	if err != nil {
		return CalendarFile{}, err
	}
	list, err := ds.PropertyReservations(ctx, prop.ID)
	if err != nil {
		return CalendarFile{}, err
	}
	body, err := h.Encoder.Encode(prop, list)
	if err != nil {
		return CalendarFile{}, err
	}
	return CalendarFile{
		Name:        string(prop.ID) + ".ics",
		ContentType: h.Encoder.ContentType(),
		Body:        body,
	}, nil
}

var _ bus.Handler[ListPropertiesQuery, []dto.Property] = (*ListPropertiesHandler)(nil)
var _ bus.Handler[GetPropertyQuery, dto.Property] = (*GetPropertyHandler)(nil)
var _ bus.Handler[ExportCalendarQuery, CalendarFile] = (*ExportCalendarHandler)(nil)
