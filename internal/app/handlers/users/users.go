package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	"staycal/internal/app/outbox"
	domainuser "staycal/internal/domain/user"
)

const (
	moderateUserKey = "users.moderate"
	listUsersKey    = "users.list"
)

type Action string

const (
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionUnapprove  Action = "unapprove"
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

var ErrUnknownAction = errors.New("unknown moderation action")

// ModerateUserCommand changes another user's approval state. Only masters
// may issue it.
type ModerateUserCommand struct {
	Principal datasource.Principal
	UserID    string `validate:"required"`
	Action    Action `validate:"required,oneof=approve reject unapprove activate deactivate"`
}

func (ModerateUserCommand) Key() string { return moderateUserKey }

type ModerateUserHandler struct {
	Users  domainuser.Repository
	Outbox outbox.Outbox
	Logger *slog.Logger
}

func (h *ModerateUserHandler) Handle(ctx context.Context, cmd ModerateUserCommand) (dto.UserProfile, error) {
	if !cmd.Principal.IsMaster() {
		return dto.UserProfile{}, support.ErrForbidden
	}
	target, err := h.Users.ByID(ctx, domainuser.ID(strings.TrimSpace(cmd.UserID)))
	if err != nil {
		return dto.UserProfile{}, err
	}
	now := time.Now()
	switch cmd.Action {
	case ActionApprove:
		err = target.Approve(now)
	case ActionReject:
		err = target.Reject(now)
	case ActionUnapprove:
		err = target.Unapprove(now)
	case ActionActivate:
		err = target.SetActive(true, now)
	case ActionDeactivate:
		err = target.SetActive(false, now)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return dto.UserProfile{}, err
	}
	if err := h.Users.Save(ctx, target); err != nil {
		return dto.UserProfile{}, err
	}
	ev := domainuser.StatusChangedEvent(target, domainuser.ID(cmd.Principal.UserID), now)
	if err := outbox.Record(ctx, h.Outbox, ev); err != nil {
		return dto.UserProfile{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("user moderated", "user_id", target.ID, "action", cmd.Action, "status", target.Status, "active", target.Active)
	}
	return dto.MapUserProfile(target), nil
}

type ListUsersQuery struct {
	Principal datasource.Principal
	Status    string `validate:"omitempty,oneof=pending approved rejected"`
}

func (ListUsersQuery) Key() string { return listUsersKey }

// ListUsersHandler is the master dashboard listing. The master account itself
// is never included.
type ListUsersHandler struct {
	Users domainuser.Repository
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) ([]dto.UserProfile, error) {
	if !q.Principal.IsMaster() {
		return nil, support.ErrForbidden
	}
	var (
		list []*domainuser.User
		err  error
	)
	if strings.TrimSpace(q.Status) != "" {
		status, perr := domainuser.ParseStatus(q.Status)
		if perr != nil {
			return nil, perr
		}
		list, err = h.Users.ByStatus(ctx, status)
	} else {
		list, err = h.Users.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*domainuser.User, 0, len(list))
	for _, u := range list {
		if u.Role != domainuser.RoleMaster {
			out = append(out, u)
		}
	}
	return dto.MapUserProfiles(out), nil
}

var _ bus.Handler[ModerateUserCommand, dto.UserProfile] = (*ModerateUserHandler)(nil)
var _ bus.Handler[ListUsersQuery, []dto.UserProfile] = (*ListUsersHandler)(nil)
