package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"noteshare/internal/domain/entities"
	"noteshare/internal/ports/repositories"
	"noteshare/pkg/logger"
)

// AccessRepository реализует интерфейс repositories.AccessRepository для работы с Postgres.
type AccessRepository struct {
	pool PgxPoolInterface
}

// NewAccessRepository создает новый экземпляр репозитория грантов доступа.
func NewAccessRepository(pool PgxPoolInterface) repositories.AccessRepository {
	return &AccessRepository{pool: pool}
}

const accessColumns = `id, note_id, user_id, created_at`

func scanAccess(row pgx.Row) (*entities.Access, error) {
	var access entities.Access
	err := row.Scan(
		&access.ID,
		&access.NoteID,
		&access.UserID,
		&access.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// Create сохраняет грант доступа пользователя к заметке.
// Повторный грант той же пары (note_id, user_id) не создает дубликата.
func (r *AccessRepository) Create(ctx context.Context, noteID, userID string) (*entities.Access, error) {
	log := logger.Log(ctx).With(zap.String("repository", "access"), zap.String("method", "Create"))

	query := `
        INSERT INTO accesses (note_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (note_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING ` + accessColumns + `
    `

	access, err := scanAccess(r.pool.QueryRow(ctx, query, noteID, userID))
	if err != nil {
		log.Error(ctx, "error creating access grant", zap.Error(err))
		return nil, fmt.Errorf("error creating access grant: %w", err)
	}

	return access, nil
}

// FindByID находит грант доступа по его идентификатору.
func (r *AccessRepository) FindByID(ctx context.Context, accessID string) (*entities.Access, error) {
	log := logger.Log(ctx).With(zap.String("repository", "access"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + accessColumns + `
        FROM accesses
        WHERE id = $1
    `

	access, err := scanAccess(r.pool.QueryRow(ctx, query, accessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "access grant not found", zap.String("accessID", accessID))
			return nil, entities.ErrAccessNotFound
		}
		log.Error(ctx, "error finding access grant by id", zap.Error(err))
		return nil, fmt.Errorf("error querying access grant by id: %w", err)
	}

	return access, nil
}

// FindByUserAndNote находит грант для пары пользователь-заметка.
func (r *AccessRepository) FindByUserAndNote(ctx context.Context, userID, noteID string) (*entities.Access, error) {
	log := logger.Log(ctx).With(zap.String("repository", "access"), zap.String("method", "FindByUserAndNote"))

	query := `
        SELECT ` + accessColumns + `
        FROM accesses
        WHERE user_id = $1 AND note_id = $2
    `

	access, err := scanAccess(r.pool.QueryRow(ctx, query, userID, noteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "access grant not found",
				zap.String("userID", userID),
				zap.String("noteID", noteID))
			return nil, entities.ErrAccessNotFound
		}
		log.Error(ctx, "error finding access grant", zap.Error(err))
		return nil, fmt.Errorf("error querying access grant: %w", err)
	}

	return access, nil
}

// FindNoteIDsByUser возвращает идентификаторы всех заметок, расшаренных пользователю.
func (r *AccessRepository) FindNoteIDsByUser(ctx context.Context, userID string) ([]string, error) {
	log := logger.Log(ctx).With(zap.String("repository", "access"), zap.String("method", "FindNoteIDsByUser"))

	query := `
        SELECT note_id
        FROM accesses
        WHERE user_id = $1
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		log.Error(ctx, "error querying access grants by user", zap.Error(err))
		return nil, fmt.Errorf("error querying access grants by user: %w", err)
	}
	defer rows.Close()

	noteIDs := make([]string, 0)
	for rows.Next() {
		var noteID string
		if err := rows.Scan(&noteID); err != nil {
			return nil, fmt.Errorf("error scanning access grant row: %w", err)
		}
		noteIDs = append(noteIDs, noteID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access grant rows: %w", err)
	}

	return noteIDs, nil
}
