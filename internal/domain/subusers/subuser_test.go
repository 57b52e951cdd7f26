package subusers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{name: "ok", params: CreateParams{ID: "s1", Name: "Ayşe", OwnerID: "u1"}},
		{name: "with email", params: CreateParams{ID: "s1", Name: "Ali", Email: " Ali@Example.com ", OwnerID: "u1"}},
		{name: "missing name", params: CreateParams{ID: "s1", Name: "  ", OwnerID: "u1"}, wantErr: ErrNameRequired},
		{name: "missing owner", params: CreateParams{ID: "s1", Name: "Ali"}, wantErr: ErrOwnerRequired},
		{name: "bad email", params: CreateParams{ID: "s1", Name: "Ali", Email: "nope", OwnerID: "u1"}, wantErr: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.OwnedBy("u1"))
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestNewNormalizesEmail(t *testing.T) {
	got, err := New(CreateParams{ID: "s1", Name: "Ali", Email: " Ali@Example.com ", OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", got.Email)
}
