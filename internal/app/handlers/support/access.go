package support

import (
	"context"
	"errors"
	"strings"

	"staycal/internal/app/datasource"
	"staycal/internal/domain/properties"
)

var (
	ErrPrincipalRequired = errors.New("principal is required")
	ErrForbidden         = errors.New("access denied")
)

// Source resolves the backend serving the principal's tenant.
func Source(resolver datasource.Resolver, p datasource.Principal) (datasource.DataSource, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, ErrPrincipalRequired
	}
	if resolver == nil {
		return nil, datasource.ErrNoDataSource
	}
	return resolver.For(p.Role)
}

// OwnedProperty loads a property and checks that the principal owns it.
func OwnedProperty(ctx context.Context, ds datasource.DataSource, p datasource.Principal, id string) (properties.Property, error) {
	prop, err := ds.Property(ctx, properties.ID(strings.TrimSpace(id)))
	if err != nil {
		return properties.Property{}, err
	}
	if !prop.OwnedBy(p.UserID) {
		return properties.Property{}, properties.ErrNotOwned
	}
	return prop, nil
}
