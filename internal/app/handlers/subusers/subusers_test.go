package subusers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/datasource"
	"staycal/internal/app/handlers/subusers"
	domainsubusers "staycal/internal/domain/subusers"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/storage/blob"
	"staycal/internal/infra/storage/memory"
)

func TestSubUserLifecycle(t *testing.T) {
	sources := datasource.Selector{Local: blob.NewSource(memory.NewKV())}
	owner := datasource.Principal{UserID: "root", Role: domainuser.RoleAdmin}
	other := datasource.Principal{UserID: "other", Role: domainuser.RoleAdmin}
	ctx := context.Background()

	created, err := (&subusers.CreateSubUserHandler{Sources: sources}).Handle(ctx, subusers.CreateSubUserCommand{Principal: owner, Name: "Cleaner", Email: "c@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "root", created.OwnerID)

	_, err = (&subusers.CreateSubUserHandler{Sources: sources}).Handle(ctx, subusers.CreateSubUserCommand{Principal: owner, Name: "  "})
	assert.ErrorIs(t, err, domainsubusers.ErrNameRequired)

	list := &subusers.ListSubUsersHandler{Sources: sources}
	mine, err := list.Handle(ctx, subusers.ListSubUsersQuery{Principal: owner})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := list.Handle(ctx, subusers.ListSubUsersQuery{Principal: other})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	del := &subusers.DeleteSubUserHandler{Sources: sources}
	_, err = del.Handle(ctx, subusers.DeleteSubUserCommand{Principal: other, SubUserID: created.ID})
	assert.ErrorIs(t, err, datasource.ErrNotFound)
	_, err = del.Handle(ctx, subusers.DeleteSubUserCommand{Principal: owner, SubUserID: created.ID})
	require.NoError(t, err)

	mine, err = list.Handle(ctx, subusers.ListSubUsersQuery{Principal: owner})
	require.NoError(t, err)
	assert.Empty(t, mine)
}
