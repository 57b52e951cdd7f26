package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "staycal/internal/domain/auth"
	"staycal/internal/infra/storage/blob"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	kv := NewKV(client)

	_, err := kv.Get(ctx, "properties")
	assert.ErrorIs(t, err, blob.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "properties", []byte(`[{"id":"p1"}]`)))
	got, err := kv.Get(ctx, "properties")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(got))

	require.NoError(t, kv.Remove(ctx, "properties"))
	_, err = kv.Get(ctx, "properties")
	assert.ErrorIs(t, err, blob.ErrKeyNotFound)
}

func TestBlobSourceOverRedis(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	src := blob.NewSource(NewKV(client), blob.WithPrefix("staycal:"))

	list, err := src.Properties(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t)
	store := NewSessionStore(client)

	sess, err := domainauth.NewSession(domainauth.CreateSessionParams{Token: "tok", UserID: "u1", Role: "admin", TTL: time.Hour})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)

	srv.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestSessionStoreRevokesByUser(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	store := NewSessionStore(client)

	for _, tok := range []domainauth.Token{"a", "b"} {
		sess, err := domainauth.NewSession(domainauth.CreateSessionParams{Token: tok, UserID: "u1", TTL: time.Hour})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, sess))
	}
	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	require.NoError(t, store.DeleteByUser(ctx, "u1"))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}
