package auth

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-hub/metrics"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type Source string

const (
	SourceDirect     Source = "direct"
	SourceStructured Source = "structured"
)

// Carriers holds the raw credentials found on a request. Either may be empty.
type Carriers struct {
	Direct     string
	Structured string
}

// Session is a resolved caller. Profile is set only when a structured carrier for the same user was
// presented; it is never looked up.
type Session struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
	Source    Source
	Profile   *Profile
}

// Resolver is the single place that decides which carrier wins. It never touches storage.
type Resolver struct {
	tokens  *TokenIssuer
	revoked *RevocationList
	metrics *metrics.Metrics
}

func NewResolver(tokens *TokenIssuer, revoked *RevocationList, m *metrics.Metrics) *Resolver {
	return &Resolver{tokens: tokens, revoked: revoked, metrics: m}
}

// Resolve applies the carrier precedence: a present direct carrier is authoritative; a structured carrier
// alone must decode to a well-formed payload; with neither the caller is unauthenticated.
func (r *Resolver) Resolve(c Carriers) (Session, error) {
	switch {
	case c.Direct != "":
		claims, err := r.tokens.decodeDirect(c.Direct)
		if err != nil || r.isRevoked(claims.ID) {
			r.metrics.SessionResolved("invalid")
			return Session{}, fmt.Errorf("direct carrier rejected: %w", utils.ErrInvalidSession)
		}
		s := Session{
			UserID:    claims.Subject,
			SessionID: claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
			Source:    SourceDirect,
		}
		if c.Structured != "" {
			if pc, err := r.tokens.decodeStructured(c.Structured); err == nil && pc.UserID == s.UserID && !r.isRevoked(pc.ID) {
				p := pc.Profile
				s.Profile = &p
			}
		}
		r.metrics.SessionResolved(string(SourceDirect))
		return s, nil

	case c.Structured != "":
		pc, err := r.tokens.decodeStructured(c.Structured)
		if err != nil || r.isRevoked(pc.ID) {
			r.metrics.SessionResolved("invalid")
			return Session{}, fmt.Errorf("structured carrier rejected: %w", utils.ErrInvalidSession)
		}
		p := pc.Profile
		r.metrics.SessionResolved(string(SourceStructured))
		return Session{
			UserID:    pc.UserID,
			SessionID: pc.ID,
			ExpiresAt: pc.ExpiresAt.Time,
			Source:    SourceStructured,
			Profile:   &p,
		}, nil

	default:
		r.metrics.SessionResolved("unauthenticated")
		return Session{}, utils.ErrUnauthenticated
	}
}

// Revoke invalidates every decodable carrier in c until its own expiry. Undecodable carriers are ignored,
// since they already fail resolution.
func (r *Resolver) Revoke(c Carriers) {
	if r.revoked == nil {
		return
	}
	if c.Direct != "" {
		if claims, err := r.tokens.decodeDirect(c.Direct); err == nil {
			r.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}
	if c.Structured != "" {
		if pc, err := r.tokens.decodeStructured(c.Structured); err == nil {
			r.revoked.Revoke(pc.ID, pc.ExpiresAt.Time)
		}
	}
}

func (r *Resolver) isRevoked(sessionID string) bool {
	return r.revoked != nil && r.revoked.IsRevoked(sessionID)
}
