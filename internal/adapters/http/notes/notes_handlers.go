// Package notes содержит HTTP обработчики для работы с заметками.
package notes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"noteshare/internal/adapters/http/dto"
	"noteshare/internal/adapters/http/middleware"
	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/domain/entities"
	"noteshare/internal/domain/services"
	"noteshare/internal/ports/api"
	"noteshare/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerList   = "notes handler: list"
	LogHandlerGet    = "notes handler: get"
	LogHandlerCreate = "notes handler: create"
	LogHandlerUpdate = "notes handler: update"
	LogHandlerDelete = "notes handler: delete"
	LogHandlerShare  = "notes handler: share"

	ErrorInvalidRequest       = "invalid request"
	ErrorValidationFailed     = "validation failed"
	ErrorInvalidNoteID        = "noteId must be a valid id"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorInternal             = "internal server error"

	MsgNoteCreated = "note created successfully"
	MsgNoteUpdated = "note updated successfully"
	MsgNoteDeleted = "note deleted successfully"
	MsgNoteShared  = "note shared successfully"
	MsgNotesListed = "notes fetched successfully"
	MsgNoteFetched = "note fetched successfully"
)

// Handler содержит HTTP обработчики заметок.
type Handler struct {
	notesUseCase api.NotesUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesUseCase api.NotesUseCase) *Handler {
	return &Handler{notesUseCase: notesUseCase}
}

// noteIDParam извлекает и проверяет параметр пути noteId.
func noteIDParam(ctx fiber.Ctx) (string, bool) {
	noteID := ctx.Params("noteId")
	if _, err := uuid.Parse(noteID); err != nil {
		return "", false
	}
	return noteID, true
}

// List возвращает заметки пользователя: собственные и расшаренные ему.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerList)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	collections, err := h.notesUseCase.ListAll(requestCtx, userID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	response := dto.NoteCollectionsResponse{
		OwnedNotes:   dto.NewNoteResponses(collections.OwnedNotes),
		SharedWithMe: dto.NewNoteResponses(collections.SharedWithMe),
	}

	return respond.Success(ctx, http.StatusOK, response, MsgNotesListed)
}

// Get возвращает одну заметку, видимую пользователю.
func (h *Handler) Get(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGet)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	noteID, ok := noteIDParam(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidNoteID)
	}

	note, err := h.notesUseCase.GetOne(requestCtx, userID, noteID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return respond.Error(ctx, http.StatusNotFound, "note not found")
		}
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	return respond.Success(ctx, http.StatusOK, dto.NewNoteResponse(note), MsgNoteFetched)
}

// Create создает новую заметку.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreate)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := dto.Validator.Struct(req); err != nil {
		return respond.ErrorWithFields(ctx, http.StatusBadRequest, ErrorValidationFailed, dto.FieldErrors(err))
	}

	note, err := h.notesUseCase.Create(requestCtx, userID, req.Title, req.Note)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrTitleTaken) {
			return respond.Error(ctx, http.StatusConflict, "note with this title already exists")
		}
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	return respond.Success(ctx, http.StatusCreated, dto.NewNoteResponse(note), MsgNoteCreated)
}

// Update обновляет заголовок и текст заметки владельца.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	noteID, ok := noteIDParam(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidNoteID)
	}

	var req dto.NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := dto.Validator.Struct(req); err != nil {
		return respond.ErrorWithFields(ctx, http.StatusBadRequest, ErrorValidationFailed, dto.FieldErrors(err))
	}

	note, err := h.notesUseCase.Update(requestCtx, noteID, req.Title, req.Note, userID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		switch {
		case errors.Is(err, entities.ErrTitleTaken):
			return respond.Error(ctx, http.StatusConflict, "note with this title already exists")
		case errors.Is(err, entities.ErrNoteNotFound):
			return respond.Error(ctx, http.StatusConflict, "note could not be updated")
		default:
			return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
		}
	}

	return respond.Success(ctx, http.StatusOK, dto.NewNoteResponse(note), MsgNoteUpdated)
}

// Delete удаляет заметку владельца.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDelete)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	noteID, ok := noteIDParam(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidNoteID)
	}

	note, err := h.notesUseCase.Delete(requestCtx, userID, noteID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusInternalServerError, "note could not be deleted")
	}

	return respond.Success(ctx, http.StatusOK, dto.NewNoteResponse(note), MsgNoteDeleted)
}

// Share выдает другому пользователю доступ к заметке. Доступно только владельцу.
func (h *Handler) Share(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerShare)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	noteID, ok := noteIDParam(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidNoteID)
	}

	var req dto.ShareRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := dto.Validator.Struct(req); err != nil {
		return respond.ErrorWithFields(ctx, http.StatusBadRequest, ErrorValidationFailed, dto.FieldErrors(err))
	}

	if err := h.notesUseCase.Share(requestCtx, userID, noteID, req.Email, req.Username); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		switch {
		case errors.Is(err, entities.ErrNotOwner):
			return respond.Error(ctx, http.StatusUnauthorized, "only the owner can share this note")
		case errors.Is(err, entities.ErrNoteNotFound):
			return respond.Error(ctx, http.StatusNotFound, "note not found")
		case errors.Is(err, entities.ErrUserNotFound):
			return respond.Error(ctx, http.StatusNotFound, "user to share with not found")
		case errors.Is(err, services.ErrCreationFailed):
			return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
		default:
			return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
		}
	}

	return respond.Success(ctx, http.StatusOK, nil, MsgNoteShared)
}
