package app

import (
	"context"
	"errors"
	"fmt"

	"noteshare/internal/domain/entities"
	"noteshare/internal/domain/services"
	"noteshare/internal/ports/api"
	"noteshare/internal/ports/repositories"
	"noteshare/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodListAll = "ListAll"
	methodGetOne  = "GetOne"
	methodCreate  = "Create"
	methodUpdate  = "Update"
	methodDelete  = "Delete"
	methodShare   = "Share"

	msgListingNotes        = "listing owned and shared notes"
	msgGettingNote         = "getting note"
	msgCreatingNote        = "creating note"
	msgTitleExists         = "note with this title already exists"
	msgNoteCreated         = "note created successfully"
	msgCreateConfirmMiss   = "note creation confirmation read returned nothing"
	msgUpdatingNote        = "updating note"
	msgNoteUpdated         = "note updated successfully"
	msgUpdateMiss          = "note not found or not owned for update"
	msgDeletingNote        = "deleting note"
	msgNoteDeleted         = "note deleted successfully"
	msgDeleteMiss          = "note not found or not owned for delete"
	msgSharingNote         = "sharing note"
	msgShareNoteMissing    = "note to share does not exist"
	msgShareNotOwner       = "caller is not the owner of the note"
	msgShareTargetMissing  = "target user for sharing does not exist"
	msgAccessGranted       = "access granted successfully"
	msgGrantConfirmMiss    = "access grant confirmation read returned nothing"
	msgNoteVisibleByGrant  = "note visible through access grant"
	msgNoteVisibleAsOwner  = "note visible as owner"
	msgErrListOwned        = "failed to list owned notes"
	msgErrListGranted      = "failed to resolve access grants"
	msgErrFetchShared      = "failed to fetch shared notes"
	msgErrCheckGrant       = "failed to check access grant"
	msgErrFetchNote        = "failed to fetch note"
	msgErrCheckTitle       = "failed to check note title"
	msgErrCreateNote       = "failed to create note"
	msgErrConfirmNote      = "failed to re-read created note"
	msgErrUpdateNote       = "failed to update note"
	msgErrDeleteNote       = "failed to delete note"
	msgErrFindShareTarget  = "failed to find target user"
	msgErrCreateGrant      = "failed to create access grant"
	msgErrConfirmGrant     = "failed to re-read created access grant"

	errCtxListingOwned     = "listing owned notes"
	errCtxResolvingGrants  = "resolving access grants"
	errCtxFetchingShared   = "fetching shared notes"
	errCtxCheckingGrant    = "checking access grant"
	errCtxFetchingNote     = "fetching note"
	errCtxNoteNotFound     = "note lookup"
	errCtxCheckingTitle    = "checking note title"
	errCtxTitleTaken       = "title already taken"
	errCtxCreatingNote     = "creating note"
	errCtxConfirmingNote   = "confirming created note"
	errCtxUpdatingNote     = "updating note"
	errCtxDeletingNote     = "deleting note"
	errCtxNotOwner         = "authorizing share"
	errCtxFindingTarget    = "finding target user"
	errCtxCreatingGrant    = "creating access grant"
	errCtxConfirmingGrant  = "confirming access grant"
)

// NotesUseCaseImpl реализует интерфейс api.NotesUseCase.
type NotesUseCaseImpl struct {
	noteRepo   repositories.NoteRepository
	accessRepo repositories.AccessRepository
	userRepo   repositories.UserRepository
}

// NewNotesUseCase создает новый экземпляр сервиса заметок.
func NewNotesUseCase(
	noteRepo repositories.NoteRepository,
	accessRepo repositories.AccessRepository,
	userRepo repositories.UserRepository,
) api.NotesUseCase {
	return &NotesUseCaseImpl{
		noteRepo:   noteRepo,
		accessRepo: accessRepo,
		userRepo:   userRepo,
	}
}

// ListAll возвращает две непересекающиеся коллекции: собственные заметки
// пользователя и заметки, к которым ему выдан доступ.
func (n *NotesUseCaseImpl) ListAll(ctx context.Context, userID string) (*api.NoteCollections, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListAll), zap.String("userID", userID))
	log.Debug(ctx, msgListingNotes)

	ownedNotes, err := n.noteRepo.FindByOwner(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrListOwned, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingOwned, err)
	}

	sharedNoteIDs, err := n.accessRepo.FindNoteIDsByUser(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrListGranted, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxResolvingGrants, err)
	}

	sharedNotes, err := n.noteRepo.FindByIDs(ctx, sharedNoteIDs)
	if err != nil {
		log.Error(ctx, msgErrFetchShared, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingShared, err)
	}

	return &api.NoteCollections{
		OwnedNotes:   ownedNotes,
		SharedWithMe: sharedNotes,
	}, nil
}

// GetOne возвращает заметку по правилу видимости: при наличии гранта
// доступа заметка читается по id без фильтра владельца, иначе чтение
// требует совпадения владельца.
func (n *NotesUseCaseImpl) GetOne(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGetOne),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgGettingNote)

	grant, err := n.accessRepo.FindByUserAndNote(ctx, userID, noteID)
	if err != nil && !errors.Is(err, entities.ErrAccessNotFound) {
		log.Error(ctx, msgErrCheckGrant, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingGrant, err)
	}

	if grant != nil {
		note, err := n.noteRepo.FindByID(ctx, noteID)
		if err != nil {
			if errors.Is(err, entities.ErrNoteNotFound) {
				return nil, fmt.Errorf("%s: %w", errCtxNoteNotFound, entities.ErrNoteNotFound)
			}
			log.Error(ctx, msgErrFetchNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
		}
		log.Debug(ctx, msgNoteVisibleByGrant)
		return note, nil
	}

	note, err := n.noteRepo.FindByIDAndOwner(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return nil, fmt.Errorf("%s: %w", errCtxNoteNotFound, entities.ErrNoteNotFound)
		}
		log.Error(ctx, msgErrFetchNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}

	log.Debug(ctx, msgNoteVisibleAsOwner)
	return note, nil
}

// Create создает новую заметку. Заголовок уникален глобально, а не в
// пределах владельца: совпадение с чужой заметкой тоже конфликт.
func (n *NotesUseCaseImpl) Create(ctx context.Context, userID, title, note string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	existingNote, err := n.noteRepo.FindByTitle(ctx, title)
	if err != nil && !errors.Is(err, entities.ErrNoteNotFound) {
		log.Error(ctx, msgErrCheckTitle, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingTitle, err)
	}
	if existingNote != nil {
		log.Debug(ctx, msgTitleExists)
		return nil, fmt.Errorf("%s: %w", errCtxTitleTaken, entities.ErrTitleTaken)
	}

	createdNote, err := n.noteRepo.Create(ctx, &entities.Note{
		OwnerID: userID,
		Title:   title,
		Note:    note,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	confirmedNote, err := n.noteRepo.FindByID(ctx, createdNote.ID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgCreateConfirmMiss, zap.String("noteID", createdNote.ID))
			return nil, fmt.Errorf("%s: %w", errCtxConfirmingNote, services.ErrCreationFailed)
		}
		log.Error(ctx, msgErrConfirmNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxConfirmingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", confirmedNote.ID))
	return confirmedNote, nil
}

// Update обновляет заметку с фильтром по (noteID, ownerID). Конфликт
// заголовка возникает только если заголовок занят другой заметкой.
func (n *NotesUseCaseImpl) Update(ctx context.Context, noteID, title, note, userID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodUpdate),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgUpdatingNote)

	existingNote, err := n.noteRepo.FindByTitle(ctx, title)
	if err != nil && !errors.Is(err, entities.ErrNoteNotFound) {
		log.Error(ctx, msgErrCheckTitle, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingTitle, err)
	}
	if existingNote != nil && existingNote.ID != noteID {
		log.Debug(ctx, msgTitleExists, zap.String("conflictingNoteID", existingNote.ID))
		return nil, fmt.Errorf("%s: %w", errCtxTitleTaken, entities.ErrTitleTaken)
	}

	updatedNote, err := n.noteRepo.Update(ctx, noteID, userID, title, note)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			log.Debug(ctx, msgUpdateMiss)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, entities.ErrNoteNotFound)
		}
		log.Error(ctx, msgErrUpdateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Info(ctx, msgNoteUpdated)
	return updatedNote, nil
}

// Delete удаляет заметку с фильтром по (ownerID, noteID).
func (n *NotesUseCaseImpl) Delete(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodDelete),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgDeletingNote)

	deletedNote, err := n.noteRepo.Delete(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			log.Debug(ctx, msgDeleteMiss)
			return nil, fmt.Errorf("%s: %w", errCtxDeletingNote, entities.ErrNoteNotFound)
		}
		log.Error(ctx, msgErrDeleteNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Info(ctx, msgNoteDeleted)
	return deletedNote, nil
}

// Share выдает целевому пользователю право на чтение заметки.
// Выдавать доступ может только владелец, независимо от валидности цели.
func (n *NotesUseCaseImpl) Share(ctx context.Context, userID, noteID, email, username string) error {
	log := logger.Log(ctx).With(
		zap.String("method", methodShare),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgSharingNote)

	note, err := n.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			log.Debug(ctx, msgShareNoteMissing)
			return fmt.Errorf("%s: %w", errCtxNoteNotFound, entities.ErrNoteNotFound)
		}
		log.Error(ctx, msgErrFetchNote, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFetchingNote, err)
	}

	if note.OwnerID != userID {
		log.Debug(ctx, msgShareNotOwner, zap.String("ownerID", note.OwnerID))
		return fmt.Errorf("%s: %w", errCtxNotOwner, entities.ErrNotOwner)
	}

	targetUser, err := n.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgShareTargetMissing,
				zap.String("email", email),
				zap.String("username", username))
			return fmt.Errorf("%s: %w", errCtxFindingTarget, entities.ErrUserNotFound)
		}
		log.Error(ctx, msgErrFindShareTarget, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFindingTarget, err)
	}

	grant, err := n.accessRepo.Create(ctx, note.ID, targetUser.ID)
	if err != nil {
		log.Error(ctx, msgErrCreateGrant, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCreatingGrant, err)
	}

	if _, err := n.accessRepo.FindByID(ctx, grant.ID); err != nil {
		if errors.Is(err, entities.ErrAccessNotFound) {
			log.Error(ctx, msgGrantConfirmMiss, zap.String("accessID", grant.ID))
			return fmt.Errorf("%s: %w", errCtxConfirmingGrant, services.ErrCreationFailed)
		}
		log.Error(ctx, msgErrConfirmGrant, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxConfirmingGrant, err)
	}

	log.Info(ctx, msgAccessGranted, zap.String("sharedWithUserID", targetUser.ID))
	return nil
}
