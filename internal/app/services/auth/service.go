package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"staycal/internal/app/datasource"
	domainauth "staycal/internal/domain/auth"
	domainuser "staycal/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 6 characters")
	ErrPendingApproval    = errors.New("auth: account is waiting for approval")
	ErrAccountRejected    = errors.New("auth: account was rejected")
	ErrAccountInactive    = errors.New("auth: account is deactivated")
)

const minPasswordLength = 6

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type RegisterParams struct {
	Email    string
	Username string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

// Principal is what handlers need to route a request to the tenant's data.
func (r *ResolveResult) Principal() datasource.Principal {
	return datasource.Principal{UserID: string(r.User.ID), Role: r.User.Role}
}

// Register stores a pending account. No session is issued until a master
// approves it.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if strings.TrimSpace(params.Username) == "" {
		return nil, domainuser.ErrNameRequired
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Username:     params.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         domainuser.RoleUser,
		Status:       domainuser.StatusPending,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", user.ID, "email", user.Email, "status", user.Status)
	}
	return &AuthResult{User: user}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := loginGate(user); err != nil {
		return nil, err
	}
	user.RecordLogin(time.Now())
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, domainauth.Token(token)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated")
	}
	return nil
}

// ResolveToken maps a bearer token to its user. Sessions of users who lost
// approval are revoked on sight.
func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		return nil, domainauth.ErrSessionNotFound
	}
	user, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	if err := loginGate(user); err != nil {
		_ = s.Sessions.DeleteByUser(ctx, user.ID)
		return nil, err
	}
	return &ResolveResult{User: user, Session: session}, nil
}

// EnsureMaster creates or refreshes the master account used to approve
// registrations.
func (s *Service) EnsureMaster(ctx context.Context, email, password string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email = domainuser.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}
	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return nil, err
	}
	existing, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domainuser.RoleMaster {
			existing.Role = domainuser.RoleMaster
			existing.Status = domainuser.StatusApproved
			existing.Active = true
		}
		if err := existing.SetPasswordHash(hash, time.Now()); err != nil {
			return nil, err
		}
		if err := s.Users.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, domainuser.ErrNotFound):
		return nil, err
	}
	master, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Username:     "master",
		Email:        email,
		PasswordHash: hash,
		Role:         domainuser.RoleMaster,
		Status:       domainuser.StatusApproved,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, master); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("master account seeded", "user_id", master.ID, "email", master.Email)
	}
	return master, nil
}

func loginGate(user *domainuser.User) error {
	if user.CanLogin() {
		return nil
	}
	switch user.Status {
	case domainuser.StatusPending:
		return ErrPendingApproval
	case domainuser.StatusRejected:
		return ErrAccountRejected
	default:
		return ErrAccountInactive
	}
}

func (s *Service) issueSession(ctx context.Context, user *domainuser.User) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: user.ID,
		Role:   user.Role,
		TTL:    s.sessionTTL(),
		Now:    time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
