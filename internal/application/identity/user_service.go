package identity

import (
	"context"
	"errors"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/domain/shared"
	"go.uber.org/zap"
)

// Form-state messages
const (
	MsgSignUpInvalid = "Missing Fields. Failed to Sign up"
	MsgSignUpFailed  = "Database Error: Failed to Sign Up."
	MsgEmailInUse    = "Email is already in use."
)

// UserService handles sign-up
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, eventPublisher shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// SignUp validates the form, refuses a taken email and stores the user with
// a hashed password. On success the client is sent to the login page.
func (s *UserService) SignUp(ctx context.Context, in identity.UserForm) *form.State {
	draft, errs := identity.ParseUserForm(in)
	if errs.HasErrors() {
		return form.Invalid(errs, MsgSignUpInvalid)
	}

	// Fast path only: two concurrent sign-ups can both pass this check, and
	// the unique index on users.email decides.
	exists, err := s.userRepo.ExistsByEmail(ctx, draft.Email)
	if err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return form.StorageError(MsgSignUpFailed)
	}
	if exists {
		return form.Conflict(MsgEmailInUse)
	}

	user, err := identity.NewUser(draft)
	if err != nil {
		s.logger.Error("Failed to build user", zap.Error(err))
		return form.StorageError(MsgSignUpFailed)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return form.Conflict(MsgEmailInUse)
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return form.StorageError(MsgSignUpFailed)
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, user.GetDomainEvents()...); err != nil {
			s.logger.Error("Failed to publish user events", zap.Error(err))
		}
	}
	user.ClearDomainEvents()

	return form.RedirectTo(form.LoginPath)
}
