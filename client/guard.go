package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/ncobase/shopauth/structs"
)

// publicRoutes never require a session.
var publicRoutes = []string{"/login", "/register", "/auth/social-callback"}

// Decision is a guard verdict: either proceed, or go to RedirectTo.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// SessionChecker resolves the session when the cache has not been primed.
type SessionChecker interface {
	CheckMe(ctx context.Context) bool
}

// AuthGuard protects routes that need a signed-in (optionally admin) user.
// *Client satisfies the SessionChecker dependency.
type AuthGuard struct {
	Session *Session
	Checker SessionChecker
}

// Check decides whether navigation to target may proceed. Public routes
// always pass. Anonymous visitors are sent to the login page with the target
// as the return URL; signed-in non-admins hitting an admin route go to the
// dashboard instead.
func (g *AuthGuard) Check(ctx context.Context, target string, requiresAdmin bool) Decision {
	for _, route := range publicRoutes {
		if strings.HasPrefix(target, route) {
			return Decision{Allowed: true}
		}
	}

	if !g.Session.Checked() && g.Checker != nil {
		g.Checker.CheckMe(ctx)
	}

	user := g.Session.Current()
	if user == nil {
		return Decision{RedirectTo: "/login?returnUrl=" + url.QueryEscape(target)}
	}
	if requiresAdmin && user.Role != structs.RoleAdmin {
		return Decision{RedirectTo: "/dashboard"}
	}
	return Decision{Allowed: true}
}

// SocialCallbackGuard admits the social-callback route only when the query
// actually carries a social-login result.
type SocialCallbackGuard struct{}

// Check admits the navigation when a token, code, or error parameter is
// present; direct navigation without one goes to the login page.
func (SocialCallbackGuard) Check(query url.Values) Decision {
	if query.Get("token") != "" || query.Get("access_token") != "" ||
		query.Get("code") != "" || query.Get("error") != "" {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: "/login"}
}
