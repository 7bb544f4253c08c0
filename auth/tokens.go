package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-hub/clock"
)

const (
	tokenIssuer     = "restaurant-hub"
	audienceDirect  = "hub:uid"
	audienceProfile = "hub:profile"
)

// Profile is the denormalized identity captured at login and embedded in the structured carrier.
type Profile struct {
	UserID              string `json:"userId"`
	Email               string `json:"email"`
	DisplayName         string `json:"displayName"`
	DefaultRestaurantID string `json:"defaultRestaurantId,omitempty"`
}

type profileClaims struct {
	Profile
	jwt.RegisteredClaims
}

// IssuedSession is the carrier pair produced at login. Both tokens share one session id and one expiry.
type IssuedSession struct {
	SessionID  string
	Direct     string
	Structured string
	ExpiresAt  time.Time
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clk clock.Clock) *TokenIssuer {
	if clk == nil {
		clk = clock.Real()
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

// Issue signs both carriers for p.
func (t *TokenIssuer) Issue(p Profile) (IssuedSession, error) {
	if p.UserID == "" {
		return IssuedSession{}, errors.New("issue session: empty user id")
	}
	now := t.clock.Now()
	exp := now.Add(t.ttl)
	sid := uuid.NewString()

	registered := func(aud string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   p.UserID,
			Audience:  jwt.ClaimStrings{aud},
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		}
	}

	direct, err := jwt.NewWithClaims(jwt.SigningMethodHS256, registered(audienceDirect)).SignedString(t.secret)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("sign direct carrier: %w", err)
	}
	structured, err := jwt.NewWithClaims(jwt.SigningMethodHS256, profileClaims{
		Profile:          p,
		RegisteredClaims: registered(audienceProfile),
	}).SignedString(t.secret)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("sign structured carrier: %w", err)
	}

	return IssuedSession{SessionID: sid, Direct: direct, Structured: structured, ExpiresAt: exp}, nil
}

func (t *TokenIssuer) parse(raw string, claims jwt.Claims, audience string) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	return err
}

func (t *TokenIssuer) decodeDirect(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if err := t.parse(raw, claims, audienceDirect); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("direct carrier without subject")
	}
	return claims, nil
}

func (t *TokenIssuer) decodeStructured(raw string) (*profileClaims, error) {
	claims := &profileClaims{}
	if err := t.parse(raw, claims, audienceProfile); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, errors.New("structured carrier payload is malformed")
	}
	return claims, nil
}
