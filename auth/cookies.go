package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/clock"
)

const (
	DirectCookieName     = "hub_uid"
	StructuredCookieName = "hub_session"
)

// CookieManager writes and clears both carriers together.
type CookieManager struct {
	secure bool
	domain string
	clock  clock.Clock
}

func NewCookieManager(secure bool, domain string, clk clock.Clock) *CookieManager {
	if clk == nil {
		clk = clock.Real()
	}
	return &CookieManager{secure: secure, domain: domain, clock: clk}
}

func (m *CookieManager) Set(c *gin.Context, s IssuedSession) {
	maxAge := int(s.ExpiresAt.Sub(m.clock.Now()).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DirectCookieName, s.Direct, maxAge, "/", m.domain, m.secure, true)
	c.SetCookie(StructuredCookieName, s.Structured, maxAge, "/", m.domain, m.secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DirectCookieName, "", -1, "/", m.domain, m.secure, true)
	c.SetCookie(StructuredCookieName, "", -1, "/", m.domain, m.secure, true)
}

// CarriersFromRequest reads the direct carrier from its cookie and the structured carrier from its cookie
// or, for non-browser clients, from an Authorization bearer token.
func CarriersFromRequest(c *gin.Context) Carriers {
	var out Carriers
	if v, err := c.Cookie(DirectCookieName); err == nil {
		out.Direct = strings.TrimSpace(v)
	}
	if v, err := c.Cookie(StructuredCookieName); err == nil {
		out.Structured = strings.TrimSpace(v)
	}
	if out.Structured == "" {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			out.Structured = strings.TrimSpace(header[7:])
		}
	}
	return out
}
