package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	apperrors "github.com/tcnr01/storefront-backend/internal/errors"
	"github.com/tcnr01/storefront-backend/internal/middleware"
)

// parseIDParam reads a positive numeric path parameter, answering 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireIdentity returns the identity set by ResolveIdentity.
func requireIdentity(c *gin.Context) (model.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok || identity.IsZero() {
		middleware.GetLoggerFromContext(c).Warn("Request reached handler without identity", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return model.Identity{}, false
	}
	return identity, true
}
