package client

import (
	"context"
	"net/url"
	"testing"

	"github.com/ncobase/shopauth/structs"
)

type staticChecker struct {
	user *structs.UserResponse
	s    *Session
}

func (c *staticChecker) CheckMe(context.Context) bool {
	if c.user == nil {
		c.s.Clear()
		return false
	}
	c.s.Set(c.user)
	return true
}

func TestAuthGuardAnonymousRedirectsToLogin(t *testing.T) {
	s := NewSession()
	g := &AuthGuard{Session: s, Checker: &staticChecker{s: s}}

	d := g.Check(context.Background(), "/account/orders", false)
	if d.Allowed {
		t.Fatal("anonymous visitor must not pass")
	}
	want := "/login?returnUrl=" + url.QueryEscape("/account/orders")
	if d.RedirectTo != want {
		t.Errorf("RedirectTo = %q, want %q", d.RedirectTo, want)
	}
}

func TestAuthGuardResolvesUncheckedSession(t *testing.T) {
	s := NewSession()
	g := &AuthGuard{
		Session: s,
		Checker: &staticChecker{s: s, user: &structs.UserResponse{Email: "ann@example.com", Role: structs.RoleUser}},
	}

	d := g.Check(context.Background(), "/account", false)
	if !d.Allowed {
		t.Errorf("decision = %+v", d)
	}
	if !s.Checked() {
		t.Error("guard must resolve the session first")
	}
}

func TestAuthGuardSkipsCheckWhenPrimed(t *testing.T) {
	s := NewSession()
	s.Set(&structs.UserResponse{Role: structs.RoleUser})

	// No checker wired; a primed session must be enough.
	g := &AuthGuard{Session: s}
	if d := g.Check(context.Background(), "/account", false); !d.Allowed {
		t.Errorf("decision = %+v", d)
	}
}

func TestAuthGuardAdminRoute(t *testing.T) {
	s := NewSession()
	s.Set(&structs.UserResponse{Role: structs.RoleUser})
	g := &AuthGuard{Session: s}

	d := g.Check(context.Background(), "/admin", true)
	if d.Allowed || d.RedirectTo != "/dashboard" {
		t.Errorf("customer on admin route = %+v", d)
	}

	s.Set(&structs.UserResponse{Role: structs.RoleAdmin})
	if d := g.Check(context.Background(), "/admin", true); !d.Allowed {
		t.Errorf("admin on admin route = %+v", d)
	}
}

func TestAuthGuardPublicRoutes(t *testing.T) {
	s := NewSession()
	g := &AuthGuard{Session: s}

	for _, target := range []string{"/login", "/register", "/auth/social-callback?token=x"} {
		if d := g.Check(context.Background(), target, false); !d.Allowed {
			t.Errorf("public route %q = %+v", target, d)
		}
	}
}

func TestSocialCallbackGuard(t *testing.T) {
	g := SocialCallbackGuard{}

	for _, q := range []url.Values{
		{"token": {"abc"}},
		{"access_token": {"abc"}},
		{"code": {"abc"}},
		{"error": {"access_denied"}},
	} {
		if d := g.Check(q); !d.Allowed {
			t.Errorf("query %v = %+v", q, d)
		}
	}
	if d := g.Check(url.Values{}); d.Allowed || d.RedirectTo != "/login" {
		t.Errorf("empty query = %+v", d)
	}
}
