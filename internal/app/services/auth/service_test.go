package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"staycal/internal/app/services/auth"
	domainauth "staycal/internal/domain/auth"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/security"
	"staycal/internal/infra/storage/docstore"
	"staycal/internal/infra/storage/memory"
)

func newService() *auth.Service {
	return &auth.Service{
		Users:      docstore.NewUserRepository(memory.NewDocumentStore()),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     security.RandomTokenGenerator{Prefix: "sc_"},
		SessionTTL: time.Hour,
	}
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	res, err := svc.Register(ctx, auth.RegisterParams{Email: " Host@Example.com ", Username: "host", Password: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Equal(t, domainuser.StatusPending, res.User.Status)
	assert.Equal(t, domainuser.RoleUser, res.User.Role)
	assert.Equal(t, "host@example.com", res.User.Email)

	_, err = svc.Register(ctx, auth.RegisterParams{Email: "host@example.com", Username: "again", Password: "secret1"})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)

	_, err = svc.Register(ctx, auth.RegisterParams{Email: "x@example.com", Username: "x", Password: "12345"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestLoginGatesOnApproval(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	res, err := svc.Register(ctx, auth.RegisterParams{Email: "host@example.com", Username: "host", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginParams{Email: "host@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrPendingApproval)

	u := res.User
	require.NoError(t, u.Approve(time.Now()))
	require.NoError(t, svc.Users.Save(ctx, u))

	_, err = svc.Login(ctx, auth.LoginParams{Email: "host@example.com", Password: "wrong!!"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	logged, err := svc.Login(ctx, auth.LoginParams{Email: "HOST@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Contains(t, logged.Token, "sc_")
	assert.False(t, logged.User.LastLoginAt.IsZero())

	resolved, err := svc.ResolveToken(ctx, logged.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.User.ID)
	assert.Equal(t, string(u.ID), resolved.Principal().UserID)

	require.NoError(t, u.Reject(time.Now()))
	require.NoError(t, svc.Users.Save(ctx, u))
	_, err = svc.ResolveToken(ctx, logged.Token)
	assert.ErrorIs(t, err, auth.ErrAccountRejected)
	_, err = svc.ResolveToken(ctx, logged.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound, "revoked on first sight")
}

func TestLogoutDropsSession(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.EnsureMaster(ctx, "master@example.com", "master-pass")
	require.NoError(t, err)

	logged, err := svc.Login(ctx, auth.LoginParams{Email: "master@example.com", Password: "master-pass"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, logged.Token))

	_, err = svc.ResolveToken(ctx, logged.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestEnsureMasterIsIdempotent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.EnsureMaster(ctx, "master@example.com", "one-pass")
	require.NoError(t, err)
	second, err := svc.EnsureMaster(ctx, "master@example.com", "two-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domainuser.RoleMaster, second.Role)

	_, err = svc.Login(ctx, auth.LoginParams{Email: "master@example.com", Password: "one-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(ctx, auth.LoginParams{Email: "master@example.com", Password: "two-pass"})
	assert.NoError(t, err)

	none, err := svc.EnsureMaster(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestServiceRequiresDependencies(t *testing.T) {
	_, err := (&auth.Service{}).Login(context.Background(), auth.LoginParams{Email: "a@example.com", Password: "x"})
	assert.Error(t, err)
}
