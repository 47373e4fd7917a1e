package repositories

import (
	"context"

	"noteshare/internal/domain/entities"
)

// NoteRepository определяет интерфейс для операций сохранения заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)

	FindByID(ctx context.Context, noteID string) (*entities.Note, error)

	FindByIDAndOwner(ctx context.Context, noteID, ownerID string) (*entities.Note, error)

	FindByTitle(ctx context.Context, title string) (*entities.Note, error)

	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error)

	FindByIDs(ctx context.Context, noteIDs []string) ([]*entities.Note, error)

	Update(ctx context.Context, noteID, ownerID, title, note string) (*entities.Note, error)

	Delete(ctx context.Context, noteID, ownerID string) (*entities.Note, error)

	Search(ctx context.Context, ownerID string, accessibleIDs []string, query string) ([]*entities.Note, error)
}
