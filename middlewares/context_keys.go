package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/services"
)

const (
	ContextKeySession  = "session"
	ContextKeyUserID   = "user_id"
	ContextKeyScope    = "tenant_scope"
	ContextKeyTenantID = "restaurant_id"
)

func SessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok
}

func ScopeFrom(c *gin.Context) (services.TenantScope, bool) {
	v, ok := c.Get(ContextKeyScope)
	if !ok {
		return services.TenantScope{}, false
	}
	s, ok := v.(services.TenantScope)
	return s, ok
}

// TenantFrom returns the active restaurant id chosen by ResolveTenant.
func TenantFrom(c *gin.Context) string {
	return c.GetString(ContextKeyTenantID)
}
