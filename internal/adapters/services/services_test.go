package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/adapters/services"
	domainsvc "noteshare/internal/domain/services"
)

const testSecretKey = "test-secret-key"

func TestJWTAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	jwtService := services.NewJWT(testSecretKey, 15*time.Minute, 24*time.Hour)

	token, expiresAt, err := jwtService.GenerateAccessToken(ctx, "user-123", "testuser")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	userID, err := jwtService.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTExpiredToken(t *testing.T) {
	ctx := context.Background()
	jwtService := services.NewJWT(testSecretKey, -time.Minute, 24*time.Hour)

	token, _, err := jwtService.GenerateAccessToken(ctx, "user-123", "testuser")
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, domainsvc.ErrExpiredJWTToken)
}

func TestJWTWrongSigningKey(t *testing.T) {
	ctx := context.Background()
	issuer := services.NewJWT(testSecretKey, 15*time.Minute, 24*time.Hour)
	verifier := services.NewJWT("another-secret-key", 15*time.Minute, 24*time.Hour)

	token, _, err := issuer.GenerateAccessToken(ctx, "user-123", "testuser")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, domainsvc.ErrInvalidJWTToken)
}

func TestJWTGarbageToken(t *testing.T) {
	ctx := context.Background()
	jwtService := services.NewJWT(testSecretKey, 15*time.Minute, 24*time.Hour)

	_, err := jwtService.ValidateAccessToken(ctx, "not-a-jwt")
	require.ErrorIs(t, err, domainsvc.ErrInvalidJWTToken)
}

func TestJWTEmptySecretKey(t *testing.T) {
	ctx := context.Background()
	jwtService := services.NewJWT("", 15*time.Minute, 24*time.Hour)

	_, _, err := jwtService.GenerateAccessToken(ctx, "user-123", "testuser")
	require.ErrorIs(t, err, domainsvc.ErrGeneratingJWTToken)
}

func TestBcryptHashAndVerify(t *testing.T) {
	ctx := context.Background()
	passwordService := services.NewBcrypt(4)

	hash, err := passwordService.Hash(ctx, "password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	valid, err := passwordService.Verify(ctx, "password123", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = passwordService.Verify(ctx, "wrongpass1", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestBcryptRejectsShortPassword(t *testing.T) {
	ctx := context.Background()
	passwordService := services.NewBcrypt(4)

	_, err := passwordService.Hash(ctx, "short1")
	require.ErrorIs(t, err, domainsvc.ErrInvalidPassword)
}

func TestBcryptRejectsEmptyInputs(t *testing.T) {
	ctx := context.Background()
	passwordService := services.NewBcrypt(4)

	_, err := passwordService.Hash(ctx, "")
	require.ErrorIs(t, err, domainsvc.ErrInvalidPassword)

	_, err = passwordService.Verify(ctx, "", "some-hash")
	require.ErrorIs(t, err, domainsvc.ErrInvalidPassword)
}
