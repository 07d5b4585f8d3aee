package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/ctxutil"
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/net/resp"
	"github.com/ncobase/shopauth/service"
	"github.com/ncobase/shopauth/structs"
)

const userContextKey = "auth_user"

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Auth resolves the session token to an account and aborts with 401 when it
// cannot. Every failure mode looks the same to the caller.
func Auth(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
			c.Abort()
			return
		}

		user, _, err := svc.UserFromToken(c.Request.Context(), token)
		if err != nil {
			logger.Debugf(c.Request.Context(), "auth rejected: %v", err)
			resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		ctx := ctxutil.SetUserID(c.Request.Context(), user.ID)
		ctx = ctxutil.SetToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated account holds the
// admin role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			resp.Fail(c.Writer, resp.UnAuthorized("Unauthenticated."))
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			resp.Fail(c.Writer, resp.Forbidden("Forbidden."))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated account from the request.
func CurrentUser(c *gin.Context) (*structs.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*structs.User)
	return user, ok
}
