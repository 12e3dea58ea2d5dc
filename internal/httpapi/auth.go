package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	userports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
	apierrors "github.com/Shreejal-khatri/ElectronicStore/internal/shared/errors"
)

const actorContextKey = "httpapi.actor"

// RequireAuth verifies the bearer token and stores the resolved actor on the
// gin context. A missing token is a 401; a token the session store rejects is
// also a 401, mapped through the auth error mapper.
func RequireAuth(users userports.Service, responder *apierrors.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithMessage("missing bearer token"))
			c.Abort()
			return
		}
		user, err := users.VerifyToken(c.Request.Context(), token)
		if err != nil {
			responder.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(actorContextKey, orderports.Actor{UserID: user.ID, Admin: user.IsAdmin()})
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithMessage("missing bearer token"))
			c.Abort()
			return
		}
		if !actor.Admin {
			apierrors.Respond(c, apierrors.ErrForbidden.WithMessage("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (orderports.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return orderports.Actor{}, false
	}
	actor, ok := value.(orderports.Actor)
	return actor, ok
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
