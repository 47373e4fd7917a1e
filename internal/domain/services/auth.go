package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
	ErrCreationFailed        = errors.New("write succeeded but confirmation read returned nothing")
)

// TokenPair представляет пару токенов аутентификации.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
