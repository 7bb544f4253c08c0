package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const TenantHeader = "X-Restaurant-ID"

// ResolveTenant loads the caller's scope and picks the active restaurant: the X-Restaurant-ID header or
// restaurantId query when given and owned, otherwise the primary restaurant. Must run after
// RequireSession.
func ResolveTenant(scopes *services.TenantScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextKeyUserID)
		if userID == "" {
			utils.AbortWithError(c, utils.ErrUnauthenticated)
			return
		}

		scope, err := scopes.ScopeFor(c.Request.Context(), userID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenantID == "" {
			tenantID = strings.TrimSpace(c.Query("restaurantId"))
		}
		if tenantID == "" {
			tenantID, err = services.PrimaryTenant(scope)
		} else {
			err = services.RequireOwnership(scope, tenantID)
		}
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.Set(ContextKeyScope, scope)
		c.Set(ContextKeyTenantID, tenantID)
		c.Next()
	}
}
