package api

import (
	"context"

	"noteshare/internal/domain/entities"
	"noteshare/internal/domain/services"
)

// LoginResult содержит итог успешного входа: пару токенов и
// пользователя без учетных данных.
type LoginResult struct {
	User      *entities.User
	TokenPair *services.TokenPair
}

// AuthUseCase определяет операции регистрации и управления сессией.
// Ожидаемые бизнес-исходы возвращаются доменными ошибками:
// entities.ErrUserAlreadyExists, entities.ErrUserNotFound,
// services.ErrInvalidCredentials, services.ErrCreationFailed.
type AuthUseCase interface {
	SignUp(ctx context.Context, username, fullName, email, password string) (*entities.User, error)

	Login(ctx context.Context, email, password string) (*LoginResult, error)

	Logout(ctx context.Context, userID string) error
}
