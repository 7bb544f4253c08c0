package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// RequireSession resolves the caller from the request carriers and stores the session on the context.
func RequireSession(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := resolver.Resolve(auth.CarriersFromRequest(c))
		if err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"reason": err.Error(),
			}).Debug("session rejected")
			utils.AbortWithError(c, err)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Set(ContextKeyUserID, sess.UserID)
		c.Next()
	}
}
