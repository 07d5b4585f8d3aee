package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ncobase/shopauth/security/oauth"
	"github.com/ncobase/shopauth/structs"
)

func googleProfile() *oauth.Profile {
	return &oauth.Profile{
		ID:       "g-1",
		Email:    "ann@example.com",
		Name:     "Ann Example",
		Avatar:   "https://img/a.png",
		Provider: "google",
		Verified: true,
	}
}

func TestSocialRedirectURL(t *testing.T) {
	svc := testService(t, Deps{})

	u, err := svc.SocialRedirectURL("google", "/cart")
	if err != nil {
		t.Fatalf("SocialRedirectURL: %v", err)
	}
	if !strings.Contains(u, "state=") {
		t.Errorf("url = %q", u)
	}

	if _, err := svc.SocialRedirectURL("myspace", ""); err != oauth.ErrUnsupportedProvider {
		t.Errorf("err = %v, want ErrUnsupportedProvider", err)
	}
}

func TestSocialCallbackCreatesAccount(t *testing.T) {
	social := &fakeSocial{profile: googleProfile()}
	repo := newMemoryRepo()
	svc := testService(t, Deps{Social: social, UserRepo: repo})
	ctx := context.Background()

	state, err := svc.states.GenerateState(&oauth.StateData{Provider: "google"})
	if err != nil {
		t.Fatal(err)
	}

	token, err := svc.SocialCallback(ctx, "google", "auth-code", state)
	if err != nil {
		t.Fatalf("SocialCallback: %v", err)
	}

	user, _, err := svc.UserFromToken(ctx, token)
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if user.Provider != "google" || user.ProviderID != "g-1" {
		t.Errorf("user = %+v", user)
	}
	if user.EmailVerifiedAt == nil {
		t.Error("verified provider email must mark the account verified")
	}
	if user.PasswordHash != "" {
		t.Error("social account must be passwordless")
	}
}

func TestSocialCallbackStateChecks(t *testing.T) {
	svc := testService(t, Deps{Social: &fakeSocial{profile: googleProfile()}})
	ctx := context.Background()

	if _, err := svc.SocialCallback(ctx, "google", "code", "garbage"); err != oauth.ErrStateInvalid {
		t.Errorf("garbage state err = %v, want ErrStateInvalid", err)
	}

	state, err := svc.states.GenerateState(&oauth.StateData{Provider: "facebook"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SocialCallback(ctx, "google", "code", state); err != oauth.ErrStateInvalid {
		t.Errorf("provider mismatch err = %v, want ErrStateInvalid", err)
	}
}

func TestSocialTokenExchangeExistingIdentity(t *testing.T) {
	social := &fakeSocial{profile: googleProfile()}
	repo := newMemoryRepo()
	svc := testService(t, Deps{Social: social, UserRepo: repo})
	ctx := context.Background()

	first, err := svc.SocialTokenExchange(ctx, "google", "provider-token")
	if err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	second, err := svc.SocialTokenExchange(ctx, "google", "provider-token")
	if err != nil {
		t.Fatalf("second exchange: %v", err)
	}

	// Same identity resolves to the same account both times.
	u1, _, err := svc.UserFromToken(ctx, first.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	u2, _, err := svc.UserFromToken(ctx, second.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if u1.ID != u2.ID {
		t.Errorf("accounts differ: %q vs %q", u1.ID, u2.ID)
	}

	if first.TokenType != "bearer" || first.ExpiresIn <= 0 {
		t.Errorf("response = %+v", first)
	}
	if first.User == nil || first.User.Image != "https://img/a.png" {
		t.Errorf("user view = %+v", first.User)
	}
	if first.Message != "Social login successful" {
		t.Errorf("message = %q", first.Message)
	}
}

func TestSocialTokenExchangeLinksByEmail(t *testing.T) {
	svc := testService(t, Deps{Social: &fakeSocial{profile: googleProfile()}})
	ctx := context.Background()

	local, err := svc.Register(ctx, registerBody(), nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SocialTokenExchange(ctx, "google", "provider-token")
	if err != nil {
		t.Fatalf("SocialTokenExchange: %v", err)
	}

	user, _, err := svc.UserFromToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != local.ID {
		t.Errorf("identity must link to the existing account, got %q want %q", user.ID, local.ID)
	}
	if user.Provider != "google" || user.ProviderID != "g-1" {
		t.Errorf("linked user = %+v", user)
	}
	// The local password still works after linking.
	if _, _, err := svc.Login(ctx, &structs.LoginBody{Email: "ann@example.com", Password: "Abc123!@"}); err != nil {
		t.Errorf("password login after linking: %v", err)
	}
}

func TestSocialTokenExchangeUnsupportedProvider(t *testing.T) {
	svc := testService(t, Deps{})
	if _, err := svc.SocialTokenExchange(context.Background(), "myspace", "tok"); err != oauth.ErrUnsupportedProvider {
		t.Errorf("err = %v, want ErrUnsupportedProvider", err)
	}
}
