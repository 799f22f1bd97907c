package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/repository"
	"github.com/iliyamo/car-rental/internal/utils"
)

// AuthConfig holds token and hashing parameters.
type AuthConfig struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Session is what a successful signup, login or refresh returns.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// SignupInput is a self-service registration. Accounts created this way
// are always CLIENT.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type AuthService struct {
	store *repository.Store
	cfg   AuthConfig
}

func NewAuthService(store *repository.Store, cfg AuthConfig) *AuthService {
	return &AuthService{store: store, cfg: cfg}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return Session{}, translate("hash password", err)
	}
	u := model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleClient,
	}
	if err := s.store.Users.Create(ctx, &u); err != nil {
		return Session{}, translate("create user", err)
	}
	return s.issue(ctx, u)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Session{}, newError(ErrInvalidCredentials, "invalid credentials")
	}
	if err != nil {
		return Session{}, translate("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, newError(ErrInvalidCredentials, "invalid credentials")
	}
	return s.issue(ctx, u)
}

// Refresh validates raw, revokes it and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	userID, err := s.store.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRefresh) {
			return Session{}, newError(ErrInvalidCredentials, "invalid refresh token")
		}
		return Session{}, translate("validate refresh", err)
	}
	if err := s.store.Tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, translate("revoke refresh", err)
	}
	u, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Session{}, newError(ErrInvalidCredentials, "invalid refresh token")
	}
	if err != nil {
		return Session{}, translate("load user", err)
	}
	return s.issue(ctx, u)
}

// Logout revokes a single refresh token.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	if _, err := s.store.Tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrInvalidRefresh) {
			return newError(ErrInvalidCredentials, "invalid refresh token")
		}
		return translate("validate refresh", err)
	}
	return translate("revoke refresh", s.store.Tokens.RevokeByHash(ctx, hash))
}

// LogoutAll revokes every refresh token of a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return translate("revoke all", s.store.Tokens.RevokeAllForUser(ctx, userID))
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.Secret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, translate("issue access token", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, translate("issue refresh token", err)
	}
	if err := s.store.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, translate("store refresh token", err)
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}
