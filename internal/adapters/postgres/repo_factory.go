package postgres

import (
	"noteshare/internal/ports/repositories"
)

// RepositoryFactory создает все необходимые репозитории для работы с PostgreSQL.
type RepositoryFactory struct {
	userRepo   repositories.UserRepository
	noteRepo   repositories.NoteRepository
	accessRepo repositories.AccessRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:   NewUserRepository(pool),
		noteRepo:   NewNoteRepository(pool),
		accessRepo: NewAccessRepository(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return f.noteRepo
}

// AccessRepository возвращает репозиторий грантов доступа.
func (f *RepositoryFactory) AccessRepository() repositories.AccessRepository {
	return f.accessRepo
}
