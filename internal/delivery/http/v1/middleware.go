package v1

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uptrack-app/uptrack/internal/models"
)

const principalCtxKey = "principal"

// X-Client-ID carries the realtime connection id of the requester so
// broadcasts triggered by its own mutations are not echoed back.
const clientIDHeader = "X-Client-ID"

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError("the token was not sent"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError("the token was not sent"))
		return
	}

	principal, err := h.auth.Resolve(c, parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to resolve principal")
		abort(c, newUnauthorizedError("the token is not valid"))
		return
	}

	c.Set(principalCtxKey, *principal)
	c.Next()
}

func principalFromContext(c *gin.Context) (models.Profile, bool) {
	value, exists := c.Get(principalCtxKey)
	if !exists {
		return models.Profile{}, false
	}
	principal, ok := value.(models.Profile)
	return principal, ok
}

// mustPrincipal aborts with 401 when the auth middleware did not run.
func (h *handlerImpl) mustPrincipal(c *gin.Context) (models.Profile, bool) {
	principal, ok := principalFromContext(c)
	if !ok {
		h.logger.Error().Msg("no principal found in context")
		abort(c, newUnauthorizedError("the token was not sent"))
	}
	return principal, ok
}
