package reservations_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/datasource"
	"staycal/internal/app/handlers/reservations"
	domainproperties "staycal/internal/domain/properties"
	domainreservations "staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/storage/docstore"
	"staycal/internal/infra/storage/memory"
)

var (
	alice = datasource.Principal{UserID: "alice", Role: domainuser.RoleUser}
	bob   = datasource.Principal{UserID: "bob", Role: domainuser.RoleUser}
)

type fixture struct {
	sources datasource.Selector
	ds      datasource.DataSource
	outbox  *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ds := docstore.NewSource(memory.NewDocumentStore(), nil)
	prop, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID: "p1", Name: "Flat", OwnerID: "alice", Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, ds.SaveProperty(context.Background(), prop))
	return fixture{sources: datasource.Selector{Remote: ds}, ds: ds, outbox: memory.NewOutbox()}
}

func (f fixture) create(p datasource.Principal, start, end string) (string, error) {
	h := &reservations.CreateReservationHandler{Sources: f.sources, Outbox: f.outbox}
	res, err := h.Handle(context.Background(), reservations.CreateReservationCommand{
		Principal:  p,
		PropertyID: "p1",
		Payload:    reservations.ReservationPayload{Title: "Guest", Date: start, EndDate: end},
	})
	return res.ID, err
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	_, err := f.create(alice, "2024-03-10", "2024-03-12")
	require.NoError(t, err)

	tests := []struct {
		name  string
		start string
		end   string
		err   error
	}{
		{"same start", "2024-03-10", "", domainreservations.ErrOverlapping},
		{"touching end", "2024-03-12", "2024-03-15", domainreservations.ErrOverlapping},
		{"enclosing", "2024-03-01", "2024-03-20", domainreservations.ErrOverlapping},
		{"inverted", "2024-03-20", "2024-03-18", domainreservations.ErrEndBeforeStart},
		{"bad date", "10/03/2024", "", daterange.ErrInvalidDate},
		{"after", "2024-03-13", "2024-03-14", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create(alice, tt.start, tt.end)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCreateReservationOnLockedProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop, err := f.ds.Property(ctx, "p1")
	require.NoError(t, err)
	prop.SetLocked(true, time.Now())
	require.NoError(t, f.ds.SaveProperty(ctx, prop))

	_, err = f.create(alice, "2024-03-10", "")
	assert.ErrorIs(t, err, domainproperties.ErrLocked)
}

func TestCreateReservationOnForeignProperty(t *testing.T) {
	f := newFixture(t)
	_, err := f.create(bob, "2024-03-10", "")
	assert.ErrorIs(t, err, domainproperties.ErrNotOwned)
}

func TestUpdateReservationIgnoresItself(t *testing.T) {
	f := newFixture(t)
	id, err := f.create(alice, "2024-03-10", "2024-03-12")
	require.NoError(t, err)
	_, err = f.create(alice, "2024-03-20", "")
	require.NoError(t, err)

	h := &reservations.UpdateReservationHandler{Sources: f.sources, Outbox: f.outbox}
	ctx := context.Background()
	got, err := h.Handle(ctx, reservations.UpdateReservationCommand{
		Principal: alice, ReservationID: id,
		Payload: reservations.ReservationPayload{Title: "Longer", Date: "2024-03-09", EndDate: "2024-03-13"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Days)

	_, err = h.Handle(ctx, reservations.UpdateReservationCommand{
		Principal: alice, ReservationID: id,
		Payload: reservations.ReservationPayload{Title: "Too long", Date: "2024-03-09", EndDate: "2024-03-20"},
	})
	assert.ErrorIs(t, err, domainreservations.ErrOverlapping)

	_, err = h.Handle(ctx, reservations.UpdateReservationCommand{
		Principal: bob, ReservationID: id,
		Payload: reservations.ReservationPayload{Title: "Hijack", Date: "2024-04-01"},
	})
	assert.ErrorIs(t, err, domainreservations.ErrNotOwned)
}

func TestDeleteReservation(t *testing.T) {
	f := newFixture(t)
	id, err := f.create(alice, "2024-03-10", "")
	require.NoError(t, err)

	h := &reservations.DeleteReservationHandler{Sources: f.sources, Outbox: f.outbox}
	_, err = h.Handle(context.Background(), reservations.DeleteReservationCommand{Principal: alice, ReservationID: id})
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), reservations.DeleteReservationCommand{Principal: alice, ReservationID: id})
	assert.ErrorIs(t, err, datasource.ErrNotFound)

	require.NoError(t, f.outbox.Flush(context.Background()))
	assert.Equal(t, 2, f.outbox.Pending())
}

func TestListReservationsFilters(t *testing.T) {
	f := newFixture(t)
	for _, r := range [][2]string{{"2024-03-01", ""}, {"2024-03-05", "2024-03-08"}, {"2024-03-20", ""}} {
		_, err := f.create(alice, r[0], r[1])
		require.NoError(t, err)
	}
	h := &reservations.ListReservationsHandler{Sources: f.sources}
	ctx := context.Background()

	tests := []struct {
		name  string
		query reservations.ListReservationsQuery
		want  int
	}{
		{"all", reservations.ListReservationsQuery{Principal: alice}, 3},
		{"property", reservations.ListReservationsQuery{Principal: alice, PropertyID: "p1"}, 3},
		{"date", reservations.ListReservationsQuery{Principal: alice, Date: "2024-03-07"}, 1},
		{"range", reservations.ListReservationsQuery{Principal: alice, Start: "2024-03-01", End: "2024-03-05"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Handle(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := h.Handle(ctx, reservations.ListReservationsQuery{Principal: alice, Start: "2024-03-05", End: "2024-03-01"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestConflictsReportsStoredOverlaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, f.ds.SaveReservation(ctx, domainreservations.Reservation{
			ID: domainreservations.ID(id), OwnerID: "alice", PropertyID: "p1", Title: "Guest",
			Date: daterange.MustParse("2024-03-10"), Status: domainreservations.StatusConfirmed,
		}))
	}
	got, err := (&reservations.ConflictsHandler{Sources: f.sources}).Handle(ctx, reservations.ConflictsQuery{Principal: alice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-10", got[0].Start)
}
