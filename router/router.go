// Package router assembles the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/config"
	"github.com/ncobase/shopauth/handler"
	"github.com/ncobase/shopauth/middleware"
	"github.com/ncobase/shopauth/service"
)

// New builds the gin engine with all routes registered.
func New(cfg *config.Config, svc *service.Service) *gin.Engine {
	h := handler.New(svc, cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Trace())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.BridgeCookieToken())

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		social := api.Group("/auth/:provider")
		{
			social.GET("/redirect", h.SocialRedirect)
			social.GET("/callback", h.SocialCallback)
			social.POST("/token", h.SocialToken)
		}

		authed := api.Group("", middleware.Auth(svc))
		{
			authed.GET("/me", h.Me)
			authed.POST("/logout", h.Logout)
			authed.POST("/refresh", h.Refresh)
			authed.POST("/upload", h.Upload)

			admin := authed.Group("/admin", middleware.RequireAdmin())
			{
				admin.GET("/dashboard", h.AdminDashboard)
			}
		}
	}

	return r
}
