package identity

import (
	"context"
	"errors"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// SessionIssuer signs session tokens
type SessionIssuer interface {
	IssueSession(input auth.SessionInput) (*auth.SessionToken, error)
}

// AuthService handles sign-in and sign-out
type AuthService struct {
	verifier  *CredentialVerifier
	sessions  SessionIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	verifier *CredentialVerifier,
	sessions SessionIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		verifier:  verifier,
		sessions:  sessions,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Authenticate signs a user in. Authentication failures are returned as
// *identity.AuthError; any other error is not an authentication outcome and
// is returned unchanged for the caller to raise.
func (s *AuthService) Authenticate(ctx context.Context, in identity.LoginForm) (*LoginResult, error) {
	creds, errs := identity.ParseLoginForm(in)
	if errs.HasErrors() {
		return nil, identity.NewCredentialsError()
	}

	user, err := s.verifier.Verify(ctx, creds)
	if err != nil {
		if authErr, ok := identity.AsAuthError(err); ok {
			s.logger.Warn("Sign in rejected", zap.String("type", string(authErr.Type)))
		}
		return nil, err
	}

	session, err := s.sessions.IssueSession(auth.SessionInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		s.logger.Error("Failed to issue session", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Redirect: form.DashboardPath,
	}, nil
}

// Logout revokes the session described by claims for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.New("session has no token id")
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke session", zap.Error(err))
		return err
	}
	s.logger.Info("User signed out", zap.String("user_id", claims.UserID))
	return nil
}
