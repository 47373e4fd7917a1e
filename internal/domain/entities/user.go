package entities

import (
	"errors"
	"time"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrUsernameTooShort  = errors.New("username must contain at least 8 characters")
	ErrEmptyFullName     = errors.New("full name cannot be empty")
	ErrPasswordTooShort  = errors.New("password must contain at least 8 characters")
	ErrPasswordTooLong   = errors.New("password must contain at most 50 characters")
	ErrPasswordTooWeak   = errors.New("password must contain at least one letter and one digit")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this username or email already exists")
)

// User представляет основную сущность домена пользователя.
type User struct {
	ID           string
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized возвращает копию пользователя без учетных данных.
// Отдается наружу вместо полной сущности.
func (u *User) Sanitized() *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
