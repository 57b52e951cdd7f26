package properties_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/properties"
	domainproperties "staycal/internal/domain/properties"
	domainreservations "staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/storage/blob"
	"staycal/internal/infra/storage/docstore"
	"staycal/internal/infra/storage/memory"
)

var (
	alice = datasource.Principal{UserID: "alice", Role: domainuser.RoleUser}
	bob   = datasource.Principal{UserID: "bob", Role: domainuser.RoleUser}
	admin = datasource.Principal{UserID: "root", Role: domainuser.RoleAdmin}
)

func newSources() (datasource.Selector, *memory.KV) {
	kv := memory.NewKV()
	return datasource.Selector{
		Local:  blob.NewSource(kv),
		Remote: docstore.NewSource(memory.NewDocumentStore(), nil),
	}, kv
}

func createProperty(t *testing.T, sources datasource.Resolver, p datasource.Principal, name string) dto.Property {
	t.Helper()
	price := 80.0
	h := &properties.CreatePropertyHandler{Sources: sources, Currency: "€"}
	prop, err := h.Handle(context.Background(), properties.CreatePropertyCommand{
		Principal: p,
		Payload:   properties.PropertyPayload{Name: name, DefaultPrice: &price},
	})
	require.NoError(t, err)
	return prop
}

func TestCreatePropertyUsesDefaultCurrency(t *testing.T) {
	sources, _ := newSources()
	prop := createProperty(t, sources, alice, "Flat")
	assert.Equal(t, "€", prop.Pricing.Currency)
	assert.Equal(t, "alice", prop.OwnerID)
}

func TestAdminPropertiesLiveInBlobStore(t *testing.T) {
	sources, kv := newSources()
	createProperty(t, sources, admin, "Office")
	assert.Equal(t, 1, kv.Writes(blob.KeyProperties))

	createProperty(t, sources, alice, "Flat")
	assert.Equal(t, 1, kv.Writes(blob.KeyProperties))
}

func TestUpdatePropertyRequiresOwner(t *testing.T) {
	sources, _ := newSources()
	prop := createProperty(t, sources, alice, "Flat")
	h := &properties.UpdatePropertyHandler{Sources: sources}

	_, err := h.Handle(context.Background(), properties.UpdatePropertyCommand{
		Principal: bob, PropertyID: prop.ID, Payload: properties.PropertyPayload{Name: "Mine now"},
	})
	assert.ErrorIs(t, err, domainproperties.ErrNotOwned)

	updated, err := h.Handle(context.Background(), properties.UpdatePropertyCommand{
		Principal: alice, PropertyID: prop.ID, Payload: properties.PropertyPayload{Name: "Flat 2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Flat 2", updated.Name)
}

func TestSetAndClearPrices(t *testing.T) {
	sources, _ := newSources()
	box := memory.NewOutbox()
	prop := createProperty(t, sources, alice, "Flat")
	ctx := context.Background()

	set := &properties.SetPricesHandler{Sources: sources, Outbox: box}
	tests := []struct {
		name  string
		start string
		end   string
		price string
		err   error
	}{
		{"negative", "2024-03-01", "2024-03-02", "-5", domainproperties.ErrPriceParse},
		{"text", "2024-03-01", "2024-03-02", "cheap", domainproperties.ErrPriceParse},
		{"inverted", "2024-03-05", "2024-03-01", "10", daterange.ErrInvalidRange},
		{"bad date", "2024-13-01", "2024-03-01", "10", daterange.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := set.Handle(ctx, properties.SetPricesCommand{Principal: alice, PropertyID: prop.ID, Start: tt.start, End: tt.end, Price: tt.price})
			assert.ErrorIs(t, err, tt.err)
		})
	}

	got, err := set.Handle(ctx, properties.SetPricesCommand{Principal: alice, PropertyID: prop.ID, Start: "2024-03-01", End: "2024-03-03", Price: "120,5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2024-03-01": 120.5, "2024-03-02": 120.5, "2024-03-03": 120.5}, got.Pricing.DailyPrices)

	clearer := &properties.ClearPricesHandler{Sources: sources, Outbox: box}
	got, err = clearer.Handle(ctx, properties.ClearPricesCommand{Principal: alice, PropertyID: prop.ID, Start: "2024-03-02", End: "2024-03-02"})
	require.NoError(t, err)
	assert.Len(t, got.Pricing.DailyPrices, 2)

	require.NoError(t, box.Flush(ctx))
	assert.Equal(t, 2, box.Pending())
}

func TestDeletePropertyCascades(t *testing.T) {
	for _, p := range []datasource.Principal{alice, admin} {
		t.Run(string(p.Role), func(t *testing.T) {
			sources, _ := newSources()
			ctx := context.Background()
			prop := createProperty(t, sources, p, "Flat")
			ds, err := sources.For(p.Role)
			require.NoError(t, err)
			for i, day := range []string{"2024-03-01", "2024-03-05"} {
				require.NoError(t, ds.SaveReservation(ctx, domainreservations.Reservation{
					ID:         domainreservations.ID([]string{"r1", "r2"}[i]),
					OwnerID:    p.UserID,
					PropertyID: prop.ID,
					Title:      "Guest",
					Date:       daterange.MustParse(day),
					Status:     domainreservations.StatusConfirmed,
				}))
			}

			h := &properties.DeletePropertyHandler{Sources: sources, Outbox: memory.NewOutbox()}
			res, err := h.Handle(ctx, properties.DeletePropertyCommand{Principal: p, PropertyID: prop.ID})
			require.NoError(t, err)
			assert.Equal(t, 2, res.ReservationsRemoved)

			left, err := ds.Reservations(ctx, p.UserID)
			require.NoError(t, err)
			assert.Empty(t, left)
			_, err = ds.Property(ctx, domainproperties.ID(prop.ID))
			assert.ErrorIs(t, err, datasource.ErrNotFound)
		})
	}
}

func TestListPropertiesHidesArchived(t *testing.T) {
	sources, _ := newSources()
	ctx := context.Background()
	keep := createProperty(t, sources, alice, "Keep")
	old := createProperty(t, sources, alice, "Old")
	createProperty(t, sources, bob, "Other")

	_, err := (&properties.SetArchivedHandler{Sources: sources}).Handle(ctx, properties.SetArchivedCommand{Principal: alice, PropertyID: old.ID, Archived: true})
	require.NoError(t, err)

	list := &properties.ListPropertiesHandler{Sources: sources}
	got, err := list.Handle(ctx, properties.ListPropertiesQuery{Principal: alice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)

	got, err = list.Handle(ctx, properties.ListPropertiesQuery{Principal: alice, IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

type fakeImages struct {
	key  string
	body []byte
}

func (f *fakeImages) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	f.key = key
	data, err := io.ReadAll(body)
	f.body = data
	return "https://img.example.com/" + key, err
}

func TestSetImage(t *testing.T) {
	sources, _ := newSources()
	prop := createProperty(t, sources, alice, "Flat")
	images := &fakeImages{}
	h := &properties.SetImageHandler{Sources: sources, Images: images}
	ctx := context.Background()

	_, err := h.Handle(ctx, properties.SetImageCommand{Principal: alice, PropertyID: prop.ID, ContentType: "image/gif", Size: 3, Body: bytes.NewReader([]byte("gif"))})
	assert.ErrorIs(t, err, properties.ErrUnsupportedImageType)

	got, err := h.Handle(ctx, properties.SetImageCommand{Principal: alice, PropertyID: prop.ID, ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("png"))})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/"+images.key, got.ImageURL)
	assert.Contains(t, images.key, "properties/"+prop.ID+"/")
	assert.Equal(t, []byte("png"), images.body)

	_, err = (&properties.SetImageHandler{Sources: sources}).Handle(ctx, properties.SetImageCommand{Principal: alice, PropertyID: prop.ID})
	assert.ErrorIs(t, err, properties.ErrImageStoreUnavailable)
}
