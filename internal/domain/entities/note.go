package entities

import (
	"errors"
	"time"
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrTitleTaken     = errors.New("note with this title already exists")
	ErrEmptyNoteTitle = errors.New("note title cannot be empty")
	ErrEmptyNoteBody  = errors.New("note body cannot be empty")
)

// Note представляет заметку. Заголовок уникален во всей системе,
// а не в пределах одного владельца.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
