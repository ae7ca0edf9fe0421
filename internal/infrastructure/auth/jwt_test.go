package auth

import (
	"testing"
	"time"

	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:            "test-secret-key-at-least-32-chars",
		SessionExpiration: time.Hour,
		Issuer:            "test-issuer",
	})
}

func TestIssueSession(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	session, err := svc.IssueSession(SessionInput{UserID: userID, Email: "user@nextmail.com", Name: "User"})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateSession(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.ID)
	assert.Equal(t, "user@nextmail.com", claims.Email)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.InDelta(t, time.Hour.Seconds(), claims.GetRemainingTTL().Seconds(), 5)
}

func TestValidateSession_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:            "test-secret-key-at-least-32-chars",
		SessionExpiration: -time.Minute,
		Issuer:            "test-issuer",
	})

	session, err := svc.IssueSession(SessionInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateSession(session.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateSession_Garbage(t *testing.T) {
	_, err := newTestJWTService().ValidateSession("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSession_DifferentSecret(t *testing.T) {
	session, err := newTestJWTService().IssueSession(SessionInput{UserID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:            "another-secret-key-at-least-32-ch",
		SessionExpiration: time.Hour,
		Issuer:            "test-issuer",
	})
	_, err = other.ValidateSession(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSession_WrongIssuer(t *testing.T) {
	session, err := newTestJWTService().IssueSession(SessionInput{UserID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:            "test-secret-key-at-least-32-chars",
		SessionExpiration: time.Hour,
		Issuer:            "someone-else",
	})
	_, err = other.ValidateSession(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSession_MissingUserID(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "test-issuer",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateSession(token)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClaims_GetRemainingTTL_NoExpiry(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL())
}
