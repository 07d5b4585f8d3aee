// Package middleware provides the session transport bridge, authentication,
// and admin gating for the HTTP API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/net/cookie"
)

// BridgeCookieToken promotes the session cookie into the Authorization
// header so downstream auth sees a single transport. An explicit header
// always wins over the cookie.
func BridgeCookieToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token, err := cookie.GetToken(c.Request); err == nil && token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
