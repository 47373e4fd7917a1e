package dto

import (
	"time"

	"noteshare/internal/domain/entities"
)

// NoteRequest представляет тело запроса создания или обновления заметки.
type NoteRequest struct {
	Title string `json:"title" validate:"required,min=1"`
	Note  string `json:"note" validate:"required,min=1"`
}

// ShareRequest представляет тело запроса шаринга заметки.
// Требуется хотя бы одно из полей email / username.
type ShareRequest struct {
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Username string `json:"username" validate:"required_without=Email"`
}

// NoteResponse представляет заметку в ответе API.
type NoteResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteCollectionsResponse группирует заметки по видимости для пользователя.
type NoteCollectionsResponse struct {
	OwnedNotes   []NoteResponse `json:"ownedNotes"`
	SharedWithMe []NoteResponse `json:"sharedWithMe"`
}

// NewNoteResponse преобразует доменную заметку в ответ API.
func NewNoteResponse(note *entities.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		OwnerID:   note.OwnerID,
		Title:     note.Title,
		Note:      note.Note,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// NewNoteResponses преобразует набор доменных заметок в ответы API.
func NewNoteResponses(notes []*entities.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}
	return responses
}
