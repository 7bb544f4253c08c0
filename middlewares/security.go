package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders -> hardening headers for a JSON API. HSTS only makes sense behind TLS, so it follows
// the secure-cookie setting.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	headers := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "no-referrer",
		"Permissions-Policy":      "geolocation=(), microphone=(), camera=()",
	}
	if hsts {
		headers["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}

	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}
		// responses carry session-scoped order data
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
