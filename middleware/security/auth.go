package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"relaychat/logger"
	"relaychat/tools/errs"
	sec "relaychat/tools/security"
)

// Context key under which the verified identity is stored.
const CtxIdentityKey = "identity"

// Middleware verifies the bearer credential on each request: 401 when
// it is missing, 403 when invalid or expired.
func Middleware(opts sec.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			} else {
				token = authz
			}
		}

		if token == "" {
			logger.Warn("auth: authorization token required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required."})
			return
		}

		identity, err := sec.Verify(opts, token)
		if err != nil {
			logger.Warnf("auth: token verification failed: %v", err)
			status := http.StatusForbidden
			if errs.ErrTokenMissing.Is(err) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"message": "Invalid or expired token."})
			return
		}

		c.Set(CtxIdentityKey, *identity)
		c.Next()
	}
}

// IdentityFrom pulls the verified identity out of the request context.
func IdentityFrom(c *gin.Context) (sec.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return sec.Identity{}, false
	}
	id, ok := v.(sec.Identity)
	return id, ok
}
