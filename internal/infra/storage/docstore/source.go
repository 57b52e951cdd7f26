package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"staycal/internal/app/datasource"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/subusers"
)

// Source serves the remote backend. Each entity is its own document;
// tenant scoping is an equality query on the owner field.
type Source struct {
	Store  Store
	Logger *slog.Logger
}

func NewSource(store Store, logger *slog.Logger) *Source {
	return &Source{Store: store, Logger: logger}
}

func (s *Source) Properties(ctx context.Context, ownerID string) ([]properties.Property, error) {
	var docs []propertyDocument
	if err := s.Store.Find(ctx, CollectionProperties, "owner_id", ownerID, &docs); err != nil {
		return nil, err
	}
	out := make([]properties.Property, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Source) Property(ctx context.Context, id properties.ID) (properties.Property, error) {
	var doc propertyDocument
	if err := s.Store.Get(ctx, CollectionProperties, string(id), &doc); err != nil {
		return properties.Property{}, notFound(err)
	}
	return doc.toDomain(), nil
}

// SaveProperty creates the document on first save and afterwards only
// touches the mutable fields.
func (s *Source) SaveProperty(ctx context.Context, p properties.Property) error {
	doc := newPropertyDocument(p)
	err := s.Store.Update(ctx, CollectionProperties, doc.ID, doc.mutableFields())
	if errors.Is(err, ErrNotFound) {
		return s.Store.Set(ctx, CollectionProperties, doc.ID, doc)
	}
	return err
}

func (s *Source) DeleteProperty(ctx context.Context, id properties.ID) (int, error) {
	if _, err := s.Property(ctx, id); err != nil {
		return 0, err
	}
	if err := s.Store.Delete(ctx, CollectionProperties, string(id)); err != nil {
		return 0, notFound(err)
	}
	removed, err := s.Store.DeleteWhere(ctx, CollectionReservations, "property_id", string(id))
	if err != nil {
		return 0, fmt.Errorf("docstore: cascade reservations of %s: %w", id, err)
	}
	if s.Logger != nil {
		s.Logger.Info("docstore property deleted", "property_id", id, "reservations_removed", removed)
	}
	return removed, nil
}

func (s *Source) Reservations(ctx context.Context, ownerID string) ([]reservations.Reservation, error) {
	return s.findReservations(ctx, "owner_id", ownerID)
}

func (s *Source) PropertyReservations(ctx context.Context, propertyID properties.ID) ([]reservations.Reservation, error) {
	return s.findReservations(ctx, "property_id", string(propertyID))
}

func (s *Source) findReservations(ctx context.Context, field, value string) ([]reservations.Reservation, error) {
	var docs []reservationDocument
	if err := s.Store.Find(ctx, CollectionReservations, field, value, &docs); err != nil {
		return nil, err
	}
	out := make([]reservations.Reservation, 0, len(docs))
	for _, d := range docs {
		r, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("docstore: reservation %s: %w", d.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Source) Reservation(ctx context.Context, id reservations.ID) (reservations.Reservation, error) {
	var doc reservationDocument
	if err := s.Store.Get(ctx, CollectionReservations, string(id), &doc); err != nil {
		return reservations.Reservation{}, notFound(err)
	}
	return doc.toDomain()
}

func (s *Source) SaveReservation(ctx context.Context, r reservations.Reservation) error {
	doc := newReservationDocument(r)
	return s.Store.Set(ctx, CollectionReservations, doc.ID, doc)
}

func (s *Source) DeleteReservation(ctx context.Context, id reservations.ID) error {
	return notFound(s.Store.Delete(ctx, CollectionReservations, string(id)))
}

func (s *Source) SubUsers(ctx context.Context, ownerID string) ([]subusers.SubUser, error) {
	var docs []subUserDocument
	if err := s.Store.Find(ctx, CollectionSubUsers, "owner_id", ownerID, &docs); err != nil {
		return nil, err
	}
	out := make([]subusers.SubUser, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Source) SaveSubUser(ctx context.Context, su subusers.SubUser) error {
	doc := newSubUserDocument(su)
	return s.Store.Set(ctx, CollectionSubUsers, doc.ID, doc)
}

func (s *Source) DeleteSubUser(ctx context.Context, id subusers.ID) error {
	return notFound(s.Store.Delete(ctx, CollectionSubUsers, string(id)))
}

// notFound translates the store sentinel into the port's.
func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return datasource.ErrNotFound
	}
	return err
}

var _ datasource.DataSource = (*Source)(nil)
