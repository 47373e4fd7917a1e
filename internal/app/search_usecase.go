package app

import (
	"context"
	"fmt"

	"noteshare/internal/domain/entities"
	"noteshare/internal/ports/api"
	"noteshare/internal/ports/repositories"
	"noteshare/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodSearch = "Search"

	msgSearchingNotes  = "searching visible notes"
	msgSearchCompleted = "search completed"

	msgErrResolveGrants = "failed to resolve access grants for search"
	msgErrSearchNotes   = "failed to search notes"

	errCtxSearchGrants = "resolving grants for search"
	errCtxSearching    = "searching notes"
)

// SearchUseCaseImpl реализует интерфейс api.SearchUseCase.
type SearchUseCaseImpl struct {
	noteRepo   repositories.NoteRepository
	accessRepo repositories.AccessRepository
}

// NewSearchUseCase создает новый экземпляр сервиса поиска.
func NewSearchUseCase(
	noteRepo repositories.NoteRepository,
	accessRepo repositories.AccessRepository,
) api.SearchUseCase {
	return &SearchUseCaseImpl{
		noteRepo:   noteRepo,
		accessRepo: accessRepo,
	}
}

// Search сужает множество видимых пользователю заметок (собственные и
// расшаренные) текстовым запросом. Результат упорядочен по релевантности,
// лучшие совпадения первыми.
func (s *SearchUseCaseImpl) Search(ctx context.Context, userID, query string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodSearch),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgSearchingNotes, zap.String("query", query))

	accessibleIDs, err := s.accessRepo.FindNoteIDsByUser(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrResolveGrants, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxSearchGrants, err)
	}

	notes, err := s.noteRepo.Search(ctx, userID, accessibleIDs, query)
	if err != nil {
		log.Error(ctx, msgErrSearchNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxSearching, err)
	}

	log.Debug(ctx, msgSearchCompleted, zap.Int("matches", len(notes)))
	return notes, nil
}
