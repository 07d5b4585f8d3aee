// Package handler exposes the authentication HTTP endpoints.
package handler

import (
	"github.com/ncobase/shopauth/config"
	"github.com/ncobase/shopauth/service"
)

// Handler carries the service and the deployment settings the endpoints
// need to shape cookies and redirects.
type Handler struct {
	svc               *service.Service
	secureCookies     bool
	socialCallbackURL string
}

// New creates a Handler.
func New(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		svc:               svc,
		secureCookies:     cfg.IsProduction(),
		socialCallbackURL: cfg.Frontend.SocialCallbackURL(),
	}
}
