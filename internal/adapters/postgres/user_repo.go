// Package postgres реализует репозитории поверх PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"noteshare/internal/domain/entities"
	"noteshare/internal/ports/repositories"
	"noteshare/pkg/logger"
)

// PgxPoolInterface описывает подмножество pgxpool.Pool, используемое
// репозиториями, чтобы в тестах его мог заменить pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, username, full_name, password_hash, COALESCE(refresh_token, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE email = $1
    `

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}

// FindByUsernameOrEmail находит пользователя по username или email.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsernameOrEmail"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = $1 OR email = $2
    `

	user, err := scanUser(r.pool.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found",
				zap.String("username", username),
				zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by username or email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by username or email: %w", err)
	}

	return user, nil
}

// Create создает нового пользователя. Username приводится к нижнему регистру базой.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (email, username, full_name, password_hash)
        VALUES ($1, LOWER($2), $3, $4)
        RETURNING ` + userColumns + `
    `

	createdUser, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
	))
	if err != nil {
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return createdUser, nil
}

// StoreRefreshToken сохраняет refresh токен на записи пользователя.
func (r *UserRepository) StoreRefreshToken(ctx context.Context, id, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "StoreRefreshToken"))

	query := `
        UPDATE users
        SET refresh_token = $2, updated_at = NOW()
        WHERE id = $1
    `

	result, err := r.pool.Exec(ctx, query, id, refreshToken)
	if err != nil {
		log.Error(ctx, "error storing refresh token", zap.Error(err))
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for refresh token update", zap.String("id", id))
		return entities.ErrUserNotFound
	}

	return nil
}

// ClearRefreshToken сбрасывает refresh токен пользователя.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "ClearRefreshToken"))

	query := `
        UPDATE users
        SET refresh_token = NULL, updated_at = NOW()
        WHERE id = $1
    `

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		log.Error(ctx, "error clearing refresh token", zap.Error(err))
		return fmt.Errorf("error clearing refresh token: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for refresh token clear", zap.String("id", id))
		return entities.ErrUserNotFound
	}

	return nil
}
