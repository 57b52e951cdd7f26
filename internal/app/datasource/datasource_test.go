package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/domain/user"
)

type named struct {
	DataSource
	name string
}

func TestSelectorRouting(t *testing.T) {
	local := named{name: "local"}
	remote := named{name: "remote"}
	sel := Selector{Local: local, Remote: remote}

	tests := []struct {
		role user.Role
		want string
	}{
		{user.RoleAdmin, "local"},
		{user.RoleUser, "remote"},
		{user.RoleMaster, "remote"},
		{user.RoleEmployee, "remote"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			ds, err := sel.For(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ds.(named).name)
		})
	}
}

func TestSelectorMissingBackend(t *testing.T) {
	_, err := Selector{Remote: named{name: "remote"}}.For(user.RoleAdmin)
	assert.ErrorIs(t, err, ErrNoDataSource)
}
