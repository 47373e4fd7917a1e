package entities

import (
	"errors"
	"time"
)

// Ошибки домена предоставления доступа.
var (
	ErrAccessNotFound = errors.New("access grant not found")
	ErrNotOwner       = errors.New("only the owner may perform this action")
)

// Access представляет право на чтение заметки, выданное пользователю,
// который не является ее владельцем. Запись создается при шаринге
// и после создания не изменяется.
type Access struct {
	ID        string
	NoteID    string
	UserID    string
	CreatedAt time.Time
}
