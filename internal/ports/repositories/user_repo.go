package repositories

import (
	"context"

	"noteshare/internal/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entities.User, error)

	StoreRefreshToken(ctx context.Context, id, refreshToken string) error

	ClearRefreshToken(ctx context.Context, id string) error
}
