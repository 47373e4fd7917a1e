package services

import (
	"errors"
)

// PasswordErrors содержит ошибки, связанные с паролями.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// Границы длины пароля.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 50
)
