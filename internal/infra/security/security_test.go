package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, h.Compare(hash, "secret1"))
	assert.ErrorIs(t, h.Compare(hash, "secret2"), ErrPasswordMismatch)
}

func TestRandomTokenGenerator(t *testing.T) {
	g := RandomTokenGenerator{Size: 16, Prefix: "sc_"}
	a, err := g.NewToken()
	require.NoError(t, err)
	b, err := g.NewToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "sc_"))
	assert.Len(t, strings.TrimPrefix(a, "sc_"), 22)
	assert.NotEqual(t, a, b)
}
