package subusers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	domainsubusers "staycal/internal/domain/subusers"
)

const (
	createSubUserKey = "subusers.create"
	deleteSubUserKey = "subusers.delete"
	listSubUsersKey  = "subusers.list"
)

type CreateSubUserCommand struct {
	Principal datasource.Principal
	Name      string `validate:"required,max=120"`
	Email     string `validate:"omitempty,email"`
}

func (CreateSubUserCommand) Key() string { return createSubUserKey }

type CreateSubUserHandler struct {
	Sources datasource.Resolver
	Logger  *slog.Logger
}

func (h *CreateSubUserHandler) Handle(ctx context.Context, cmd CreateSubUserCommand) (dto.SubUser, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.SubUser{}, err
	}
	su, err := domainsubusers.New(domainsubusers.CreateParams{
		ID:      domainsubusers.ID(uuid.NewString()),
		Name:    cmd.Name,
		Email:   cmd.Email,
		OwnerID: cmd.Principal.UserID,
		Now:     time.Now(),
	})
	if err != nil {
		return dto.SubUser{}, err
	}
	if err := ds.SaveSubUser(ctx, su); err != nil {
		return dto.SubUser{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("sub-user created", "sub_user_id", su.ID, "owner_id", su.OwnerID)
	}
	return dto.MapSubUser(su), nil
}

type DeleteSubUserCommand struct {
	Principal datasource.Principal
	SubUserID string `validate:"required"`
}

func (DeleteSubUserCommand) Key() string { return deleteSubUserKey }

// DeleteSubUserHandler removes the label only; reservations keep the dangling id.
type DeleteSubUserHandler struct {
	Sources datasource.Resolver
}

func (h *DeleteSubUserHandler) Handle(ctx context.Context, cmd DeleteSubUserCommand) (dto.SubUser, error) {
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.SubUser{}, err
	}
	list, err := ds.SubUsers(ctx, cmd.Principal.UserID)
	if err != nil {
		return dto.SubUser{}, err
	}
	id := domainsubusers.ID(strings.TrimSpace(cmd.SubUserID))
	for _, su := range list {
		if su.ID != id {
			continue
		}
		if err := ds.DeleteSubUser(ctx, su.ID); err != nil {
			return dto.SubUser{}, err
		}
		return dto.MapSubUser(su), nil
	}
	return dto.SubUser{}, datasource.ErrNotFound
}

type ListSubUsersQuery struct {
	Principal datasource.Principal
}

func (ListSubUsersQuery) Key() string { return listSubUsersKey }

type ListSubUsersHandler struct {
	Sources datasource.Resolver
}

func (h *ListSubUsersHandler) Handle(ctx context.Context, q ListSubUsersQuery) ([]dto.SubUser, error) {
	ds, err := support.Source(h.Sources, q.Principal)
	if err != nil {
		return nil, err
	}
	list, err := ds.SubUsers(ctx, q.Principal.UserID)
	if err != nil {
		return nil, err
	}
	return dto.MapSubUsers(list), nil
}

var _ bus.Handler[CreateSubUserCommand, dto.SubUser] = (*CreateSubUserHandler)(nil)
var _ bus.Handler[DeleteSubUserCommand, dto.SubUser] = (*DeleteSubUserHandler)(nil)
var _ bus.Handler[ListSubUsersQuery, []dto.SubUser] = (*ListSubUsersHandler)(nil)
