package blob_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/datasource"
	"staycal/internal/domain/properties"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	"staycal/internal/domain/subusers"
	"staycal/internal/infra/storage/blob"
	"staycal/internal/infra/storage/memory"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func property(id, owner string) properties.Property {
	price := 100.0
	p, err := properties.NewProperty(properties.CreateParams{ID: properties.ID(id), Name: "House " + id, OwnerID: owner, DefaultPrice: &price, Now: now})
	if err != nil {
		panic(err)
	}
	return p
}

func reservation(id, propertyID, owner, start, end string) reservations.Reservation {
	details := reservations.Details{Title: "Guest " + id, Date: daterange.MustParse(start)}
	if end != "" {
		details.EndDate = daterange.MustParse(end)
	}
	r, err := reservations.New(reservations.CreateParams{ID: reservations.ID(id), OwnerID: owner, PropertyID: propertyID, Details: details, Now: now})
	if err != nil {
		panic(err)
	}
	return r
}

func TestSourceRoundTripAndOwnerScope(t *testing.T) {
	ctx := context.Background()
	src := blob.NewSource(memory.NewKV())

	p := properties.SetPriceForRange(property("p1", "u1"), daterange.MustParse("2024-03-10"), daterange.MustParse("2024-03-11"), 150)
	require.NoError(t, src.SaveProperty(ctx, p))
	require.NoError(t, src.SaveProperty(ctx, property("p2", "u2")))

	got, err := src.Property(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, map[string]float64{"2024-03-10": 150, "2024-03-11": 150}, got.Pricing.DailyPrices)
	require.NotNil(t, got.Pricing.DefaultPrice)
	assert.Equal(t, 100.0, *got.Pricing.DefaultPrice)

	mine, err := src.Properties(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, properties.ID("p1"), mine[0].ID)

	_, err = src.Property(ctx, "missing")
	assert.ErrorIs(t, err, datasource.ErrNotFound)
}

func TestSourceRewritesWholeCollection(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	src := blob.NewSource(kv, blob.WithPrefix("t1:"))

	require.NoError(t, src.SaveReservation(ctx, reservation("r1", "p1", "u1", "2024-03-10", "")))
	require.NoError(t, src.SaveReservation(ctx, reservation("r2", "p1", "u1", "2024-03-12", "2024-03-14")))

	raw, err := kv.Get(ctx, "t1:"+blob.KeyReservations)
	require.NoError(t, err)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "r1", stored[0]["id"])
	assert.Equal(t, "2024-03-14", stored[1]["endDate"])
	assert.Equal(t, "p1", stored[1]["propertyId"])
	assert.Equal(t, 2, kv.Writes("t1:"+blob.KeyReservations))

	updated := reservation("r1", "p1", "u1", "2024-03-09", "")
	require.NoError(t, src.SaveReservation(ctx, updated))
	list, err := src.Reservations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-09", list[0].Date.String(), "update keeps position")
}

func TestDeletePropertyCascades(t *testing.T) {
	ctx := context.Background()
	src := blob.NewSource(memory.NewKV())

	require.NoError(t, src.SaveProperty(ctx, property("p1", "u1")))
	require.NoError(t, src.SaveProperty(ctx, property("p2", "u1")))
	require.NoError(t, src.SaveReservation(ctx, reservation("r1", "p1", "u1", "2024-03-10", "")))
	require.NoError(t, src.SaveReservation(ctx, reservation("r2", "p1", "u1", "2024-03-12", "")))
	require.NoError(t, src.SaveReservation(ctx, reservation("r3", "p2", "u1", "2024-03-12", "")))

	removed, err := src.DeleteProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := src.Reservations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, reservations.ID("r3"), left[0].ID)

	_, err = src.DeleteProperty(ctx, "p1")
	assert.ErrorIs(t, err, datasource.ErrNotFound)
}

func TestSubUsers(t *testing.T) {
	ctx := context.Background()
	src := blob.NewSource(memory.NewKV())
	su, err := subusers.New(subusers.CreateParams{ID: "s1", Name: "Ayse", OwnerID: "u1", Now: now})
	require.NoError(t, err)
	require.NoError(t, src.SaveSubUser(ctx, su))

	list, err := src.SubUsers(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ayse", list[0].Name)

	require.NoError(t, src.DeleteSubUser(ctx, "s1"))
	assert.ErrorIs(t, src.DeleteSubUser(ctx, "s1"), datasource.ErrNotFound)
}

func TestCorruptCollectionIsReported(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	require.NoError(t, kv.Set(ctx, blob.KeyReservations, []byte(`[{"id":"r1","date":"10/03/2024","status":"confirmed"}]`)))

	_, err := blob.NewSource(kv).Reservations(ctx, "u1")
	assert.NoError(t, err, "records of other owners are not parsed")

	_, err = blob.NewSource(kv).Reservation(ctx, "r1")
	assert.Error(t, err)
}
