package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"staycal/internal/app/datasource"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/subusers"
)

// Source serves the local backend. Collections are shared by every tenant
// on the store and filtered by owner on read. The mutex serialises
// read-modify-write inside one process only; concurrent writers elsewhere
// still race and the last write wins.
type Source struct {
	kv     KV
	prefix string
	logger *slog.Logger
	mu     sync.Mutex
}

type Option func(*Source)

// WithPrefix namespaces every key, e.g. "tenant-a:" gives "tenant-a:properties".
func WithPrefix(prefix string) Option {
	return func(s *Source) { s.prefix = prefix }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

func NewSource(kv KV, opts ...Option) *Source {
	s := &Source{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) key(name string) string { return s.prefix + name }

func (s *Source) Properties(ctx context.Context, ownerID string) ([]properties.Property, error) {
	recs, err := readCollection[propertyRecord](ctx, s.kv, s.key(KeyProperties))
	if err != nil {
		return nil, err
	}
	out := make([]properties.Property, 0, len(recs))
	for _, rec := range recs {
		if rec.UserID != ownerID {
			continue
		}
		p, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Source) Property(ctx context.Context, id properties.ID) (properties.Property, error) {
	recs, err := readCollection[propertyRecord](ctx, s.kv, s.key(KeyProperties))
	if err != nil {
		return properties.Property{}, err
	}
	for _, rec := range recs {
		if rec.ID == string(id) {
			return rec.toDomain()
		}
	}
	return properties.Property{}, datasource.ErrNotFound
}

func (s *Source) SaveProperty(ctx context.Context, p properties.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := readCollection[propertyRecord](ctx, s.kv, s.key(KeyProperties))
	if err != nil {
		return err
	}
	recs = upsert(recs, fromProperty(p), func(r propertyRecord) string { return r.ID })
	return s.write(ctx, KeyProperties, recs)
}

// DeleteProperty removes the property and then every reservation pointing at
// it. Each collection is rewritten once.
func (s *Source) DeleteProperty(ctx context.Context, id properties.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	props, err := readCollection[propertyRecord](ctx, s.kv, s.key(KeyProperties))
	if err != nil {
		return 0, err
	}
	kept, removed := partition(props, func(r propertyRecord) bool { return r.ID == string(id) })
	if removed == 0 {
		return 0, datasource.ErrNotFound
	}
	if err := s.write(ctx, KeyProperties, kept); err != nil {
		return 0, err
	}

	res, err := readCollection[reservationRecord](ctx, s.kv, s.key(KeyReservations))
	if err != nil {
		return 0, err
	}
	keptRes, dropped := partition(res, func(r reservationRecord) bool { return r.PropertyID == string(id) })
	if dropped > 0 {
		if err := s.write(ctx, KeyReservations, keptRes); err != nil {
			return 0, err
		}
	}
	if s.logger != nil {
		s.logger.Info("blob property deleted", "property_id", id, "reservations_removed", dropped)
	}
	return dropped, nil
}

func (s *Source) Reservations(ctx context.Context, ownerID string) ([]reservations.Reservation, error) {
	return s.reservationsWhere(ctx, func(r reservationRecord) bool { return r.UserID == ownerID })
}

func (s *Source) PropertyReservations(ctx context.Context, propertyID properties.ID) ([]reservations.Reservation, error) {
	return s.reservationsWhere(ctx, func(r reservationRecord) bool { return r.PropertyID == string(propertyID) })
}

func (s *Source) reservationsWhere(ctx context.Context, keep func(reservationRecord) bool) ([]reservations.Reservation, error) {
	recs, err := readCollection[reservationRecord](ctx, s.kv, s.key(KeyReservations))
	if err != nil {
		return nil, err
	}
	out := make([]reservations.Reservation, 0, len(recs))
	for _, rec := range recs {
		if !keep(rec) {
			continue
		}
		r, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Source) Reservation(ctx context.Context, id reservations.ID) (reservations.Reservation, error) {
	recs, err := readCollection[reservationRecord](ctx, s.kv, s.key(KeyReservations))
	if err != nil {
		return reservations.Reservation{}, err
	}
	for _, rec := range recs {
		if rec.ID == string(id) {
			return rec.toDomain()
		}
	}
	return reservations.Reservation{}, datasource.ErrNotFound
}

func (s *Source) SaveReservation(ctx context.Context, r reservations.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := readCollection[reservationRecord](ctx, s.kv, s.key(KeyReservations))
	if err != nil {
		return err
	}
	recs = upsert(recs, fromReservation(r), func(r reservationRecord) string { return r.ID })
	return s.write(ctx, KeyReservations, recs)
}

func (s *Source) DeleteReservation(ctx context.Context, id reservations.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := readCollection[reservationRecord](ctx, s.kv, s.key(KeyReservations))
	if err != nil {
		return err
	}
	kept, removed := partition(recs, func(r reservationRecord) bool { return r.ID == string(id) })
	if removed == 0 {
		return datasource.ErrNotFound
	}
	return s.write(ctx, KeyReservations, kept)
}

func (s *Source) SubUsers(ctx context.Context, ownerID string) ([]subusers.SubUser, error) {
	recs, err := readCollection[subUserRecord](ctx, s.kv, s.key(KeySubUsers))
	if err != nil {
		return nil, err
	}
	out := make([]subusers.SubUser, 0, len(recs))
	for _, rec := range recs {
		if rec.ParentUserID != ownerID {
			continue
		}
		su, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, su)
	}
	return out, nil
}

func (s *Source) SaveSubUser(ctx context.Context, su subusers.SubUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := readCollection[subUserRecord](ctx, s.kv, s.key(KeySubUsers))
	if err != nil {
		return err
	}
	recs = upsert(recs, fromSubUser(su), func(r subUserRecord) string { return r.ID })
	return s.write(ctx, KeySubUsers, recs)
}

func (s *Source) DeleteSubUser(ctx context.Context, id subusers.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := readCollection[subUserRecord](ctx, s.kv, s.key(KeySubUsers))
	if err != nil {
		return err
	}
	kept, removed := partition(recs, func(r subUserRecord) bool { return r.ID == string(id) })
	if removed == 0 {
		return datasource.ErrNotFound
	}
	return s.write(ctx, KeySubUsers, kept)
}

func (s *Source) write(ctx context.Context, name string, recs any) error {
	body, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("blob: encode %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), body); err != nil {
		return fmt.Errorf("blob: write %s: %w", name, err)
	}
	return nil
}

// readCollection treats a missing key as an empty collection.
func readCollection[R any](ctx context.Context, kv KV, key string) ([]R, error) {
	body, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []R{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", key, err)
	}
	out := []R{}
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("blob: decode %s: %w", key, err)
	}
	return out, nil
}

// upsert replaces the record with the same id in place or appends it.
func upsert[R any](recs []R, rec R, id func(R) string) []R {
	target := id(rec)
	for i := range recs {
		if id(recs[i]) == target {
			recs[i] = rec
			return recs
		}
	}
	return append(recs, rec)
}

func partition[R any](recs []R, drop func(R) bool) ([]R, int) {
	kept := make([]R, 0, len(recs))
	removed := 0
	for _, r := range recs {
		if drop(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}

var _ datasource.DataSource = (*Source)(nil)
