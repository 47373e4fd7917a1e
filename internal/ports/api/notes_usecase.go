package api

import (
	"context"

	"noteshare/internal/domain/entities"
)

// NoteCollections содержит две непересекающиеся коллекции:
// заметки, принадлежащие пользователю, и заметки, которыми с ним поделились.
type NoteCollections struct {
	OwnedNotes   []*entities.Note
	SharedWithMe []*entities.Note
}

// NotesUseCase определяет CRUD-операции с заметками и шаринг.
// Ожидаемые бизнес-исходы возвращаются доменными ошибками:
// entities.ErrNoteNotFound, entities.ErrTitleTaken, entities.ErrNotOwner,
// entities.ErrUserNotFound (целевой пользователь шаринга),
// services.ErrCreationFailed.
type NotesUseCase interface {
	ListAll(ctx context.Context, userID string) (*NoteCollections, error)

	GetOne(ctx context.Context, userID, noteID string) (*entities.Note, error)

	Create(ctx context.Context, userID, title, note string) (*entities.Note, error)

	Update(ctx context.Context, noteID, title, note, userID string) (*entities.Note, error)

	Delete(ctx context.Context, userID, noteID string) (*entities.Note, error)

	Share(ctx context.Context, userID, noteID, email, username string) error
}
