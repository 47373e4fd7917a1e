package api

import (
	"context"

	"noteshare/internal/domain/entities"
)

// SearchUseCase определяет полнотекстовый поиск по видимым пользователю заметкам.
type SearchUseCase interface {
	// Search возвращает заметки из множества {собственные ∪ расшаренные},
	// соответствующие текстовому запросу, в порядке убывания релевантности.
	// Отсутствие совпадений - пустой срез, а не ошибка.
	Search(ctx context.Context, userID, query string) ([]*entities.Note, error)
}
