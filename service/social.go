package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ncobase/shopauth/data/repository"
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/security/oauth"
	"github.com/ncobase/shopauth/structs"
)

// SocialRedirectURL builds the provider consent URL for the redirect flow.
func (s *Service) SocialRedirectURL(provider, next string) (string, error) {
	if !oauth.ValidateProvider(provider) {
		return "", oauth.ErrUnsupportedProvider
	}
	state, err := s.states.GenerateState(&oauth.StateData{Provider: provider, NextURL: next})
	if err != nil {
		return "", err
	}
	return s.social.AuthorizationURL(oauth.Provider(provider), state)
}

// SocialCallback completes the redirect flow: it verifies the state,
// exchanges the code, resolves the account, and mints a session token.
func (s *Service) SocialCallback(ctx context.Context, provider, code, state string) (string, error) {
	data, err := s.states.ParseState(state)
	if err != nil {
		return "", err
	}
	if data.Provider != provider {
		return "", oauth.ErrStateInvalid
	}

	tok, err := s.social.ExchangeCode(ctx, oauth.Provider(provider), code)
	if err != nil {
		return "", err
	}

	profile, err := s.social.GetUserProfile(ctx, oauth.Provider(provider), tok.AccessToken)
	if err != nil {
		return "", err
	}

	user, err := s.resolveSocialUser(ctx, profile)
	if err != nil {
		return "", err
	}
	return s.mintToken(user)
}

// SocialTokenExchange completes the token flow: the client already holds a
// provider access token and trades it for a first-party session.
func (s *Service) SocialTokenExchange(ctx context.Context, provider, accessToken string) (*structs.TokenResponse, error) {
	if !oauth.ValidateProvider(provider) {
		return nil, oauth.ErrUnsupportedProvider
	}

	profile, err := s.social.GetUserProfile(ctx, oauth.Provider(provider), accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveSocialUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}

	view, err := s.UserView(user)
	if err != nil {
		return nil, err
	}

	return &structs.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.TokenTTL().Seconds()),
		User:        view,
		Message:     "Social login successful",
	}, nil
}

// resolveSocialUser maps a provider profile to an account:
// by linked identity first, then by email match, else a new account.
func (s *Service) resolveSocialUser(ctx context.Context, profile *oauth.Profile) (*structs.User, error) {
	user, err := s.userRepo.FindByProviderIdentity(ctx, profile.Provider, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if profile.Email != "" {
		user, err = s.userRepo.FindByEmail(ctx, profile.Email)
		if err == nil {
			// Existing local account with the same address: link the
			// identity to it rather than creating a duplicate.
			if err := s.userRepo.AttachProvider(ctx, user.ID, profile.Provider, profile.ID, profile.Avatar); err != nil {
				return nil, err
			}
			logger.Infof(ctx, "linked %s identity to account %s", profile.Provider, user.Email)
			return s.userRepo.FindByID(ctx, user.ID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	verifiedAt := &now
	if !profile.Verified {
		verifiedAt = nil
	}
	user = &structs.User{
		ID:              uuid.New().String(),
		Name:            profile.Name,
		Email:           profile.Email,
		PasswordHash:    "",
		Role:            structs.RoleUser,
		Provider:        profile.Provider,
		ProviderID:      profile.ID,
		Avatar:          profile.Avatar,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "social account created via %s: %s", profile.Provider, profile.Email)
	return user, nil
}
