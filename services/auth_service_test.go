package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/clock"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(env *testEnv) (*AuthService, *auth.Resolver) {
	tokens := auth.NewTokenIssuer("secret", 7*24*time.Hour, clock.Real())
	return NewAuthService(env.users, env.scopes, tokens), auth.NewResolver(tokens, nil, nil)
}

func TestRegisterThenLogin(t *testing.T) {
	env := setupTestEnv(t)
	svc, resolver := newAuthService(env)

	user, issued, err := svc.Register(bg, RegisterInput{Name: "New", Email: "New@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)
	assert.NotEmpty(t, issued.Direct)
	assert.NotEmpty(t, issued.Structured)

	_, _, err = svc.Register(bg, RegisterInput{Name: "Dup", Email: "new@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, _, err = svc.Login(bg, LoginInput{Email: "new@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	_, issued, err = svc.Login(bg, LoginInput{Email: "new@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	sess, err := resolver.Resolve(auth.Carriers{Direct: issued.Direct, Structured: issued.Structured})
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	require.NotNil(t, sess.Profile)
	assert.Empty(t, sess.Profile.DefaultRestaurantID, "no restaurant yet")
}

func TestLoginEmbedsPrimaryRestaurant(t *testing.T) {
	env := setupTestEnv(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw-123456"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", "u1").Update("password", string(hash)).Error)

	svc, resolver := newAuthService(env)
	_, issued, err := svc.Login(bg, LoginInput{Email: "one@example.com", Password: "pw-123456"})
	require.NoError(t, err)

	sess, err := resolver.Resolve(auth.Carriers{Structured: issued.Structured})
	require.NoError(t, err)
	assert.Equal(t, "r1", sess.Profile.DefaultRestaurantID)
	assert.Equal(t, "Owner One", sess.Profile.DisplayName)
}

func TestProfileFallsBackToLookup(t *testing.T) {
	env := setupTestEnv(t)
	svc, _ := newAuthService(env)

	p, err := svc.Profile(bg, auth.Session{UserID: "u1", Source: auth.SourceDirect})
	require.NoError(t, err)
	assert.Equal(t, "one@example.com", p.Email)
	assert.Equal(t, "r1", p.DefaultRestaurantID)

	cached := &auth.Profile{UserID: "u1", Email: "from-carrier@example.com"}
	p, err = svc.Profile(bg, auth.Session{UserID: "u1", Profile: cached})
	require.NoError(t, err)
	assert.Equal(t, "from-carrier@example.com", p.Email, "structured carrier is served without a lookup")

	_, err = svc.Profile(bg, auth.Session{UserID: "ghost"})
	assert.ErrorIs(t, err, utils.ErrUnknownUser)
}
