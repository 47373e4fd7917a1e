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

// NoteRepository реализует интерфейс repositories.NoteRepository для работы с Postgres.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый экземпляр репозитория заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteColumns = `id, owner_id, title, note, created_at, updated_at`

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Note,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) collectNotes(ctx context.Context, rows pgx.Rows) ([]*entities.Note, error) {
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note row: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, nil
}

// Create сохраняет новую заметку.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Create"))

	query := `
        INSERT INTO notes (owner_id, title, note)
        VALUES ($1, $2, $3)
        RETURNING ` + noteColumns + `
    `

	createdNote, err := scanNote(r.pool.QueryRow(ctx, query,
		note.OwnerID,
		note.Title,
		note.Note,
	))
	if err != nil {
		log.Error(ctx, "error creating note", zap.Error(err))
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return createdNote, nil
}

// FindByID находит заметку по ID без фильтра владельца.
func (r *NoteRepository) FindByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE id = $1
    `

	note, err := scanNote(r.pool.QueryRow(ctx, query, noteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error finding note by id", zap.Error(err))
		return nil, fmt.Errorf("error querying note by id: %w", err)
	}

	return note, nil
}

// FindByIDAndOwner находит заметку по ID с обязательным совпадением владельца.
func (r *NoteRepository) FindByIDAndOwner(ctx context.Context, noteID, ownerID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByIDAndOwner"))

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE id = $1 AND owner_id = $2
    `

	note, err := scanNote(r.pool.QueryRow(ctx, query, noteID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned",
				zap.String("noteID", noteID),
				zap.String("ownerID", ownerID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error finding note by id and owner", zap.Error(err))
		return nil, fmt.Errorf("error querying note by id and owner: %w", err)
	}

	return note, nil
}

// FindByTitle находит заметку по заголовку. Заголовок уникален глобально.
func (r *NoteRepository) FindByTitle(ctx context.Context, title string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByTitle"))

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE title = $1
    `

	note, err := scanNote(r.pool.QueryRow(ctx, query, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found by title")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error finding note by title", zap.Error(err))
		return nil, fmt.Errorf("error querying note by title: %w", err)
	}

	return note, nil
}

// FindByOwner возвращает все заметки, принадлежащие пользователю.
func (r *NoteRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByOwner"))

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE owner_id = $1
        ORDER BY updated_at DESC
    `

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		log.Error(ctx, "error querying notes by owner", zap.Error(err))
		return nil, fmt.Errorf("error querying notes by owner: %w", err)
	}

	return r.collectNotes(ctx, rows)
}

// FindByIDs возвращает заметки с перечисленными идентификаторами.
func (r *NoteRepository) FindByIDs(ctx context.Context, noteIDs []string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByIDs"))

	if len(noteIDs) == 0 {
		return make([]*entities.Note, 0), nil
	}

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE id = ANY($1::uuid[])
        ORDER BY updated_at DESC
    `

	rows, err := r.pool.Query(ctx, query, noteIDs)
	if err != nil {
		log.Error(ctx, "error querying notes by ids", zap.Error(err))
		return nil, fmt.Errorf("error querying notes by ids: %w", err)
	}

	return r.collectNotes(ctx, rows)
}

// Update обновляет заголовок и текст заметки с фильтром по (id, owner_id).
// Промах фильтра (чужая или отсутствующая заметка) отдается как ErrNoteNotFound.
func (r *NoteRepository) Update(ctx context.Context, noteID, ownerID, title, note string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Update"))

	query := `
        UPDATE notes
        SET title = $3, note = $4, updated_at = NOW()
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + noteColumns + `
    `

	updatedNote, err := scanNote(r.pool.QueryRow(ctx, query, noteID, ownerID, title, note))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned for update",
				zap.String("noteID", noteID),
				zap.String("ownerID", ownerID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error updating note", zap.Error(err))
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	return updatedNote, nil
}

// Delete удаляет заметку с фильтром по (id, owner_id) и возвращает удаленную запись.
func (r *NoteRepository) Delete(ctx context.Context, noteID, ownerID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Delete"))

	query := `
        DELETE FROM notes
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + noteColumns + `
    `

	deletedNote, err := scanNote(r.pool.QueryRow(ctx, query, noteID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned for delete",
				zap.String("noteID", noteID),
				zap.String("ownerID", ownerID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "error deleting note", zap.Error(err))
		return nil, fmt.Errorf("error deleting note: %w", err)
	}

	return deletedNote, nil
}

// Search выполняет полнотекстовый поиск по заметкам, видимым пользователю:
// собственным и перечисленным в accessibleIDs. Результат ранжирован по
// релевантности текстового совпадения.
func (r *NoteRepository) Search(ctx context.Context, ownerID string, accessibleIDs []string, searchQuery string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Search"))

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE (owner_id = $1 OR id = ANY($2::uuid[]))
          AND search_tsv @@ plainto_tsquery('english', $3)
        ORDER BY ts_rank(search_tsv, plainto_tsquery('english', $3)) DESC
    `

	rows, err := r.pool.Query(ctx, query, ownerID, accessibleIDs, searchQuery)
	if err != nil {
		log.Error(ctx, "error searching notes", zap.Error(err))
		return nil, fmt.Errorf("error searching notes: %w", err)
	}

	return r.collectNotes(ctx, rows)
}
