package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/datasource"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	"staycal/internal/domain/user"
	"staycal/internal/infra/storage/docstore"
	"staycal/internal/infra/storage/memory"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newSource() (*docstore.Source, *memory.DocumentStore) {
	store := memory.NewDocumentStore()
	return docstore.NewSource(store, nil), store
}

func mustProperty(t *testing.T, id, owner string) properties.Property {
	t.Helper()
	p, err := properties.NewProperty(properties.CreateParams{ID: properties.ID(id), Name: "Flat " + id, OwnerID: owner, Now: now})
	require.NoError(t, err)
	return p
}

func mustReservation(t *testing.T, id, propertyID, date string) reservations.Reservation {
	t.Helper()
	r, err := reservations.New(reservations.CreateParams{
		ID: reservations.ID(id), OwnerID: "u1", PropertyID: propertyID,
		Details: reservations.Details{Title: "Guest", Date: daterange.MustParse(date), EndDate: daterange.MustParse(date).AddDays(1)},
		Now:     now,
	})
	require.NoError(t, err)
	return r
}

func TestSavePropertyKeepsOwnership(t *testing.T) {
	ctx := context.Background()
	src, _ := newSource()
	p := mustProperty(t, "p1", "u1")
	require.NoError(t, src.SaveProperty(ctx, p))

	p.OwnerID = "intruder"
	p.Name = "Renamed"
	p.SetLocked(true, now.Add(time.Hour))
	require.NoError(t, src.SaveProperty(ctx, p))

	got, err := src.Property(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.Locked)
	assert.Equal(t, properties.DefaultCurrency, got.Pricing.Currency)
}

func TestReservationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newSource()
	r := mustReservation(t, "r1", "p1", "2024-03-10")
	require.NoError(t, src.SaveReservation(ctx, r))

	got, err := src.Reservation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", got.Date.String())
	assert.Equal(t, "2024-03-11", got.EndDate.String())
	assert.Equal(t, reservations.StatusConfirmed, got.Status)

	byProperty, err := src.PropertyReservations(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, byProperty, 1)

	require.NoError(t, src.DeleteReservation(ctx, "r1"))
	assert.ErrorIs(t, src.DeleteReservation(ctx, "r1"), datasource.ErrNotFound)
}

func TestDeletePropertyCascades(t *testing.T) {
	ctx := context.Background()
	src, _ := newSource()
	require.NoError(t, src.SaveProperty(ctx, mustProperty(t, "p1", "u1")))
	require.NoError(t, src.SaveReservation(ctx, mustReservation(t, "r1", "p1", "2024-03-10")))
	require.NoError(t, src.SaveReservation(ctx, mustReservation(t, "r2", "p1", "2024-03-20")))
	require.NoError(t, src.SaveReservation(ctx, mustReservation(t, "r3", "p2", "2024-03-10")))

	removed, err := src.DeleteProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := src.Reservations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "p2", left[0].PropertyID)

	_, err = src.DeleteProperty(ctx, "p1")
	assert.ErrorIs(t, err, datasource.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := docstore.NewUserRepository(memory.NewDocumentStore())

	a, err := user.NewUser(user.CreateParams{ID: "a", Username: "a", Email: "A@Example.com", PasswordHash: "h", CreatedAt: now})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.ByEmail(ctx, " a@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID("a"), got.ID)
	assert.Equal(t, user.StatusPending, got.Status)

	dup, err := user.NewUser(user.CreateParams{ID: "b", Username: "b", Email: "a@example.com", PasswordHash: "h", CreatedAt: now})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), user.ErrEmailAlreadyUsed)

	require.NoError(t, got.Approve(now))
	require.NoError(t, repo.Save(ctx, got))
	pending, err := repo.ByStatus(ctx, user.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Active)

	_, err = repo.ByID(ctx, "zzz")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
