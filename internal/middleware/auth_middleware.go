package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	apperrors "github.com/tcnr01/storefront-backend/internal/errors"
	"github.com/tcnr01/storefront-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	ClaimsKey    = "token_claims"
)

// TokenAuthenticator resolves an access token to an active user.
type TokenAuthenticator interface {
	AuthenticateAccessToken(ctx context.Context, token string) (*util.Claims, *model.User, error)
}

type AuthMiddleware struct {
	auth TokenAuthenticator
}

func NewAuthMiddleware(auth TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

var errMissingCredentials = errors.New("missing bearer credentials")

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingCredentials
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", util.ErrInvalidToken
	}
	return parts[1], nil
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*util.Claims, *model.User, error) {
	token, err := bearerToken(c)
	if err != nil {
		return nil, nil, err
	}
	return m.auth.AuthenticateAccessToken(c.Request.Context(), token)
}

func setAuthenticated(c *gin.Context, claims *util.Claims, user *model.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserEmailKey, user.Email)
	c.Set(ClaimsKey, claims)
	c.Set(IdentityKey, model.Authenticated(user.ID))
}

// Authenticate requires a valid access token for an active user.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		claims, user, err := m.resolve(c)
		if err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case errors.Is(err, errMissingCredentials):
				apperrors.Unauthorized(c, "Not authenticated")
			case errors.Is(err, util.ErrWrongTokenType):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token type")
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token expired")
			case errors.Is(err, util.ErrInvalidToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			case errors.Is(err, service.ErrTokenRevoked):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked")
			case errors.Is(err, service.ErrUserNotFound):
				apperrors.Unauthorized(c, "User not found or inactive")
			default:
				log.Error("Authentication lookup failed", err)
				apperrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		setAuthenticated(c, claims, user)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
		})
		c.Next()
	}
}

// OptionalAuthenticate sets the user when a usable access token is
// presented and otherwise continues as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, user, err := m.resolve(c)
		if err != nil {
			if !errors.Is(err, errMissingCredentials) {
				GetLoggerFromContext(c).Debug("Token rejected - continuing as guest", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
			c.Next()
			return
		}

		setAuthenticated(c, claims, user)
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetClaims returns the verified access token claims.
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*util.Claims)
	return claims, ok
}
