package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tcnr01/storefront-backend/internal/app/model"
)

const (
	IdentityKey     = "identity"
	SessionIDHeader = "X-Session-Id"

	maxSessionIDLength = 64
)

// ResolveIdentity runs after OptionalAuthenticate or Authenticate. An
// authenticated user wins; otherwise the X-Session-Id header is used, or a
// new session id is issued. Anonymous session ids are echoed back in the
// X-Session-Id response header.
func ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := GetUserID(c); ok {
			c.Set(IdentityKey, model.Authenticated(userID))
			c.Next()
			return
		}

		sessionID := GetSessionID(c)
		if sessionID == "" {
			sessionID = uuid.NewString()
			GetLoggerFromContext(c).Debug("Issued new session id", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		c.Set(IdentityKey, model.Anonymous(sessionID))
		c.Header(SessionIDHeader, sessionID)
		c.Next()
	}
}

// GetSessionID returns the client supplied session id, or "" when absent
// or unusable.
func GetSessionID(c *gin.Context) string {
	sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader))
	if len(sessionID) > maxSessionIDLength {
		return ""
	}
	return sessionID
}

// GetIdentity returns the identity resolved for this request.
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := value.(model.Identity)
	return identity, ok
}
