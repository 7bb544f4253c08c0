package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var ErrBadCredentials = fmt.Errorf("invalid email or password: %w", utils.ErrUnauthenticated)

// AuthService registers and logs in users and issues the carrier pair.
type AuthService struct {
	users  UserStore
	scopes *TenantScopeResolver
	tokens *auth.TokenIssuer
}

func NewAuthService(users UserStore, scopes *TenantScopeResolver, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, scopes: scopes, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, auth.IssuedSession, error) {
	if err := validateInput(in); err != nil {
		return nil, auth.IssuedSession{}, err
	}
	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, auth.IssuedSession{}, fmt.Errorf("email already registered: %w", utils.ErrConflict)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, auth.IssuedSession{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.IssuedSession{}, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: string(hash),
		Role:     models.RoleOwner,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, auth.IssuedSession{}, err
	}

	issued, err := s.tokens.Issue(auth.Profile{UserID: user.ID, Email: user.Email, DisplayName: user.Name})
	if err != nil {
		return nil, auth.IssuedSession{}, err
	}
	return user, issued, nil
}

// Login checks the password and issues both carriers. The structured carrier records the user's default
// restaurant when there is one.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, auth.IssuedSession, error) {
	if err := validateInput(in); err != nil {
		return nil, auth.IssuedSession{}, err
	}
	user, err := s.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, auth.IssuedSession{}, ErrBadCredentials
		}
		return nil, auth.IssuedSession{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, auth.IssuedSession{}, ErrBadCredentials
	}

	profile := auth.Profile{UserID: user.ID, Email: user.Email, DisplayName: user.Name}
	scope, err := s.scopes.ScopeFor(ctx, user.ID)
	switch {
	case err == nil:
		profile.DefaultRestaurantID, _ = PrimaryTenant(scope)
	case !errors.Is(err, utils.ErrNoTenant):
		return nil, auth.IssuedSession{}, err
	}

	issued, err := s.tokens.Issue(profile)
	if err != nil {
		return nil, auth.IssuedSession{}, err
	}
	return user, issued, nil
}

// Profile serves the caller's profile from the structured carrier when it is present and falls back to
// a lookup otherwise.
func (s *AuthService) Profile(ctx context.Context, sess auth.Session) (auth.Profile, error) {
	if sess.Profile != nil {
		return *sess.Profile, nil
	}
	user, err := s.users.FindUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return auth.Profile{}, fmt.Errorf("user %s: %w", sess.UserID, utils.ErrUnknownUser)
		}
		return auth.Profile{}, err
	}
	profile := auth.Profile{UserID: user.ID, Email: user.Email, DisplayName: user.Name}
	if scope, err := s.scopes.ScopeFor(ctx, user.ID); err == nil {
		profile.DefaultRestaurantID, _ = PrimaryTenant(scope)
	}
	return profile, nil
}
