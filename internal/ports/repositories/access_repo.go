package repositories

import (
	"context"

	"noteshare/internal/domain/entities"
)

// AccessRepository определяет интерфейс для операций с правами доступа к заметкам.
type AccessRepository interface {
	Create(ctx context.Context, noteID, userID string) (*entities.Access, error)

	FindByID(ctx context.Context, accessID string) (*entities.Access, error)

	FindByUserAndNote(ctx context.Context, userID, noteID string) (*entities.Access, error)

	FindNoteIDsByUser(ctx context.Context, userID string) ([]string, error)
}
