package identity

import (
	"context"
	"errors"

	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/domain/shared"
	"go.uber.org/zap"
)

// CredentialVerifier checks an email and password against the stored hash
type CredentialVerifier struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewCredentialVerifier creates a new CredentialVerifier
func NewCredentialVerifier(userRepo identity.UserRepository, logger *zap.Logger) *CredentialVerifier {
	return &CredentialVerifier{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Verify returns the user when the password matches. An unknown email or a
// wrong password is a CredentialsSignin AuthError; a failing lookup is a
// CallbackRouteError. A canceled or expired context is returned unwrapped.
func (v *CredentialVerifier) Verify(ctx context.Context, creds identity.Credentials) (*identity.User, error) {
	user, err := v.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.NewCredentialsError()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		v.logger.Error("Failed to fetch user during sign in", zap.Error(err))
		return nil, identity.NewCallbackError(err)
	}

	if !user.VerifyPassword(creds.Password) {
		return nil, identity.NewCredentialsError()
	}

	return user, nil
}
