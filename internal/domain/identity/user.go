package identity

import (
	"strings"

	"github.com/acme/invoicing/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

// bcrypt only reads the first 72 bytes of a password and rejects longer
// input, so both hashing and comparison truncate to that length.
const maxPasswordBytes = 72

// User is a staff account allowed to sign in to the dashboard
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
}

// NewUser creates a user from a validated draft, hashing the password
func NewUser(draft UserDraft) (*User, error) {
	passwordHash, err := HashPassword(draft.Password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              draft.Name,
		Email:             draft.Email,
		PasswordHash:      passwordHash,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), truncatePassword(password))
	return err == nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// MsgPasswordTooShort is reported when a password has fewer than six characters
const MsgPasswordTooShort = "String must contain at least 6 character(s)"

// UserForm is the raw sign-up submission
type UserForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// UserDraft is a validated sign-up submission. Password is still plaintext.
type UserDraft struct {
	Name     string
	Email    string
	Password string
}

// ParseUserForm validates a sign-up form
func ParseUserForm(form UserForm) (UserDraft, shared.FieldErrors) {
	name := strings.TrimSpace(form.Name)
	email := shared.NormalizeEmail(form.Email)

	errs := shared.FieldErrors{}
	errs.Check("name", name, shared.RuleFilled)
	errs.Check("email", email, shared.RuleFilled, shared.RuleEmail)
	errs.Check("password", form.Password, shared.MinLength(6, MsgPasswordTooShort))

	if errs.HasErrors() {
		return UserDraft{}, errs
	}
	return UserDraft{Name: name, Email: email, Password: form.Password}, nil
}

// LoginForm is the raw sign-in submission
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Credentials is a sign-in submission that passed the login schema
type Credentials struct {
	Email    string
	Password string
}

// ParseLoginForm validates a sign-in form
func ParseLoginForm(form LoginForm) (Credentials, shared.FieldErrors) {
	email := shared.NormalizeEmail(form.Email)

	errs := shared.FieldErrors{}
	errs.Check("email", email, shared.RuleEmail)
	errs.Check("password", form.Password, shared.MinLength(6, MsgPasswordTooShort))

	if errs.HasErrors() {
		return Credentials{}, errs
	}
	return Credentials{Email: email, Password: form.Password}, nil
}
