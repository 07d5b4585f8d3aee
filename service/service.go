// Package service implements the authentication flows: registration,
// credential login, social sign-in, session inspection, and revocation.
package service

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/casdoor/oss"

	"github.com/ncobase/shopauth/config"
	"github.com/ncobase/shopauth/crypto"
	"github.com/ncobase/shopauth/data/repository"
	"github.com/ncobase/shopauth/emailverify"
	"github.com/ncobase/shopauth/messaging/email"
	securityjwt "github.com/ncobase/shopauth/security/jwt"
	"github.com/ncobase/shopauth/security/oauth"
	"github.com/ncobase/shopauth/structs"
)

// EmailVerifier checks address deliverability before registration.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) emailverify.Result
}

// SocialClient performs the provider side of the OAuth flows.
type SocialClient interface {
	AuthorizationURL(provider oauth.Provider, state string) (string, error)
	ExchangeCode(ctx context.Context, provider oauth.Provider, code string) (*oauth.TokenResponse, error)
	GetUserProfile(ctx context.Context, provider oauth.Provider, accessToken string) (*oauth.Profile, error)
}

// Service wires the authentication flows together.
type Service struct {
	userRepo     repository.UserRepository
	tokenManager *securityjwt.TokenManager
	revocation   securityjwt.RevocationStore
	verifier     EmailVerifier
	social       SocialClient
	states       *oauth.StateManager
	storage      oss.StorageInterface
	sender       email.Sender
	idKey        []byte
	frontendURL  string
	shopName     string
}

// Deps carries the service dependencies. Sender and Storage may be nil;
// the related features degrade gracefully.
type Deps struct {
	UserRepo     repository.UserRepository
	TokenManager *securityjwt.TokenManager
	Revocation   securityjwt.RevocationStore
	Verifier     EmailVerifier
	Social       SocialClient
	States       *oauth.StateManager
	Storage      oss.StorageInterface
	Sender       email.Sender
	IDSecret     string
	FrontendURL  string
	ShopName     string
}

// New assembles a Service from explicit dependencies.
func New(deps Deps) *Service {
	key := sha256.Sum256([]byte(deps.IDSecret))
	return &Service{
		userRepo:     deps.UserRepo,
		tokenManager: deps.TokenManager,
		revocation:   deps.Revocation,
		verifier:     deps.Verifier,
		social:       deps.Social,
		states:       deps.States,
		storage:      deps.Storage,
		sender:       deps.Sender,
		idKey:        key[:],
		frontendURL:  deps.FrontendURL,
		shopName:     deps.ShopName,
	}
}

// NewFromConfig assembles a Service with production components.
func NewFromConfig(cfg *config.Config, userRepo repository.UserRepository, store oss.StorageInterface, sender email.Sender) *Service {
	var revocation securityjwt.RevocationStore
	if cfg.Auth.JWT.Revocation == "redis" {
		revocation = securityjwt.NewRedisRevocationStore(cfg.Auth.JWT.RedisAddr)
	} else {
		revocation = securityjwt.NewMemoryRevocationStore()
	}

	var validation *emailverify.Config
	if cfg.Email != nil {
		validation = cfg.Email.Validation
	}

	return New(Deps{
		UserRepo:     userRepo,
		TokenManager: securityjwt.NewTokenManager(cfg.Auth.JWT.Secret, time.Duration(cfg.Auth.JWT.Expire)*time.Minute),
		Revocation:   revocation,
		Verifier:     emailverify.NewVerifier(validation),
		Social:       oauth.NewClient(cfg.OAuth),
		States:       oauth.NewStateManager(cfg.OAuth.StateSecret),
		Storage:      store,
		Sender:       sender,
		IDSecret:     cfg.Auth.IDSecret,
		FrontendURL:  cfg.Frontend.BaseURL,
		ShopName:     cfg.AppName,
	})
}

// TokenTTL returns the session token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenManager.Expire()
}

// UserView builds the public representation of an account. The record ID is
// obfuscated before leaving the service.
func (s *Service) UserView(user *structs.User) (*structs.UserResponse, error) {
	id, err := crypto.EncryptID(user.ID, s.idKey)
	if err != nil {
		return nil, err
	}
	return &structs.UserResponse{
		ID:       id,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Image:    user.DisplayImage(),
		Provider: user.Provider,
	}, nil
}
