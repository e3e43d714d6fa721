package middleware

import (
	"feedbackboard/internal/app/identity"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityMiddleware resolves the caller once per request and stores it on
// both the gin context and the request context.
func IdentityMiddleware(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolver.Resolve(c.Request.Context(), identity.SessionKeyFromRequest(c.Request))
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Anonymous()
}
