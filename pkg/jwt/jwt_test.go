package jwt

import (
	"errors"
	"testing"
	"time"

	"clinic-booking/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessExpiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "doctor")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRefreshTokenType(t *testing.T) {
	svc := newService(time.Hour)

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "patient")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestExpiredToken(t *testing.T) {
	svc := newService(-time.Minute)

	token, _, err := svc.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestWrongSecret(t *testing.T) {
	token, _, err := newService(time.Hour).GenerateAccessToken(uuid.New(), "admin")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTamperedToken(t *testing.T) {
	svc := newService(time.Hour)
	token, _, err := svc.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
