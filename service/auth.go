package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/ncobase/shopauth/crypto"
	"github.com/ncobase/shopauth/data/repository"
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/messaging/email"
	securityjwt "github.com/ncobase/shopauth/security/jwt"
	"github.com/ncobase/shopauth/structs"
)

// Register creates a local account. The address must be unused and pass
// deliverability checks; the role is always the customer role, regardless
// of anything the request may claim. An optional profile image is stored
// first so the created record carries its URL.
func (s *Service) Register(ctx context.Context, body *structs.RegisterBody, image *multipart.FileHeader) (*structs.User, error) {
	// Uniqueness comes before verification, hashing, and image storage.
	// A duplicate that races past this check still surfaces at Create.
	if _, err := s.userRepo.FindByEmail(ctx, body.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if res := s.verifier.Verify(ctx, body.Email); !res.Valid {
		return nil, &EmailRejectedError{Reason: res.Reason}
	}

	hash, err := crypto.HashPassword(ctx, body.Password)
	if err != nil {
		return nil, err
	}

	var imageURL string
	if image != nil {
		if imageURL, err = s.storeImage(ctx, image); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &structs.User{
		ID:           uuid.New().String(),
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Role:         structs.RoleUser,
		Image:        imageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Infof(ctx, "user registered: %s", user.Email)
	s.sendWelcomeEmail(user)
	return user, nil
}

// sendWelcomeEmail delivers the welcome message off the request path.
// Failures are logged, never surfaced to the registrant.
func (s *Service) sendWelcomeEmail(user *structs.User) {
	if s.sender == nil {
		return
	}
	go func(recipient, name string) {
		_, err := s.sender.SendTemplateEmail(recipient, email.Template{
			Subject:  "Welcome to " + s.shopName,
			Template: "welcome",
			Name:     name,
			URL:      s.frontendURL,
		})
		if err != nil {
			logger.Warnf(context.Background(), "welcome email to %s failed: %v", recipient, err)
		}
	}(user.Email, user.Name)
}

// Login verifies credentials and mints a session token. All failures look
// identical to the caller.
func (s *Service) Login(ctx context.Context, body *structs.LoginBody) (string, *structs.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.PasswordHash == "" || !crypto.ComparePassword(user.PasswordHash, body.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.mintToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.Infof(ctx, "user logged in: %s", user.Email)
	return token, user, nil
}

// mintToken issues a session token for the account.
func (s *Service) mintToken(user *structs.User) (string, error) {
	return s.tokenManager.GenerateAccessToken(uuid.New().String(), map[string]any{
		"user_id":  user.ID,
		"email":    user.Email,
		"roles":    []string{user.Role},
		"is_admin": user.IsAdmin(),
	})
}

// UserFromToken resolves a session token to its account, rejecting revoked
// and malformed tokens.
func (s *Service) UserFromToken(ctx context.Context, tokenString string) (*structs.User, map[string]any, error) {
	claims, err := s.tokenManager.DecodeToken(tokenString)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}
	if !securityjwt.IsAccessToken(claims) {
		return nil, nil, ErrTokenInvalid
	}

	jti := securityjwt.GetTokenIDFromToken(claims)
	if revoked, err := s.revocation.IsRevoked(ctx, jti); err != nil {
		logger.Errorf(ctx, "revocation lookup failed: %v", err)
		return nil, nil, err
	} else if revoked {
		return nil, nil, ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(ctx, securityjwt.GetUserIDFromToken(claims))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokenManager.DecodeToken(tokenString)
	if err != nil {
		// Nothing to revoke; the cookie is cleared regardless.
		return nil
	}

	jti := securityjwt.GetTokenIDFromToken(claims)
	until := securityjwt.GetExpirationFromToken(claims)
	if jti == "" || until.IsZero() {
		return nil
	}

	if err := s.revocation.Revoke(ctx, jti, until); err != nil {
		logger.Errorf(ctx, "revoke on logout failed: %v", err)
		return err
	}
	return nil
}

// Refresh rotates a valid session token: the old jti is revoked and a new
// token is issued with a fresh lifetime.
func (s *Service) Refresh(ctx context.Context, tokenString string) (string, *structs.User, error) {
	user, claims, err := s.UserFromToken(ctx, tokenString)
	if err != nil {
		return "", nil, err
	}

	token, err := s.mintToken(user)
	if err != nil {
		return "", nil, err
	}

	jti := securityjwt.GetTokenIDFromToken(claims)
	until := securityjwt.GetExpirationFromToken(claims)
	if err := s.revocation.Revoke(ctx, jti, until); err != nil {
		logger.Warnf(ctx, "revoke on refresh failed: %v", err)
	}

	return token, user, nil
}
