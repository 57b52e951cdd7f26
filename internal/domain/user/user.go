package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: username is required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrInvalidStatus       = errors.New("user: invalid status")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
	ErrMasterImmutable     = errors.New("user: master account cannot be moderated")
)

type ID string

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleMaster   Role = "master"
	RoleEmployee Role = "employee"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// User is a tenant account. Properties, reservations and sub-users are
// scoped to the user's ID.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	Active       bool
	LastLoginAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByStatus(ctx context.Context, status Status) ([]*User, error)
	List(ctx context.Context) ([]*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.Username)
	if name == "" {
		return nil, ErrNameRequired
	}
	role, err := ParseRole(string(params.Role))
	if err != nil {
		return nil, err
	}
	status := params.Status
	if status == "" {
		status = StatusPending
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Username:     name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         role,
		Status:       status,
		Active:       status == StatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Approve lets the user log in.
func (u *User) Approve(now time.Time) error {
	if u.Role == RoleMaster {
		return ErrMasterImmutable
	}
	u.Status = StatusApproved
	u.Active = true
	u.touch(now)
	return nil
}

func (u *User) Reject(now time.Time) error {
	if u.Role == RoleMaster {
		return ErrMasterImmutable
	}
	u.Status = StatusRejected
	u.Active = false
	u.touch(now)
	return nil
}

// Unapprove returns an approved user to the pending queue.
func (u *User) Unapprove(now time.Time) error {
	if u.Role == RoleMaster {
		return ErrMasterImmutable
	}
	u.Status = StatusPending
	u.Active = false
	u.touch(now)
	return nil
}

func (u *User) SetActive(active bool, now time.Time) error {
	if u.Role == RoleMaster && !active {
		return ErrMasterImmutable
	}
	u.Active = active
	u.touch(now)
	return nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.touch(now)
	return nil
}

func (u *User) RecordLogin(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.LastLoginAt = now.UTC()
}

// CanLogin is true only for approved, active accounts. Masters are always allowed.
func (u *User) CanLogin() bool {
	if u.Role == RoleMaster {
		return true
	}
	return u.Status == StatusApproved && u.Active
}

func (u *User) IsMaster() bool { return u.Role == RoleMaster }

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMaster:
		return RoleMaster, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
