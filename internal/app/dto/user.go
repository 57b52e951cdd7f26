package dto

import (
	"time"

	"staycal/internal/domain/subusers"
	domainuser "staycal/internal/domain/user"
)

type UserProfile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token,omitempty"`
}

func MapUserProfile(u *domainuser.User) UserProfile {
	if u == nil {
		return UserProfile{}
	}
	var last *time.Time
	if !u.LastLoginAt.IsZero() {
		t := u.LastLoginAt
		last = &t
	}
	return UserProfile{
		ID:          string(u.ID),
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
		Active:      u.Active,
		LastLoginAt: last,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func MapUserProfiles(list []*domainuser.User) []UserProfile {
	out := make([]UserProfile, 0, len(list))
	for _, u := range list {
		out = append(out, MapUserProfile(u))
	}
	return out
}

func NewAuthResponse(u *domainuser.User, token string) AuthResponse {
	return AuthResponse{User: MapUserProfile(u), Token: token}
}

type SubUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func MapSubUser(s subusers.SubUser) SubUser {
	return SubUser{
		ID:        string(s.ID),
		Name:      s.Name,
		Email:     s.Email,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	}
}

func MapSubUsers(list []subusers.SubUser) []SubUser {
	out := make([]SubUser, 0, len(list))
	for _, s := range list {
		out = append(out, MapSubUser(s))
	}
	return out
}
