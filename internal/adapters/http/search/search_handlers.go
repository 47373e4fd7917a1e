// Package search содержит HTTP обработчик полнотекстового поиска по заметкам.
package search

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"noteshare/internal/adapters/http/dto"
	"noteshare/internal/adapters/http/middleware"
	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/ports/api"
	"noteshare/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSearch = "search handler: search"

	ErrorFailedToServeRequest = "failed to serve request"
	ErrorInternal             = "internal server error"

	MsgSearchCompleted = "search completed successfully"
)

// Handler содержит HTTP обработчик поиска.
type Handler struct {
	searchUseCase api.SearchUseCase
}

// NewHandler создает новый экземпляр обработчика поиска.
func NewHandler(searchUseCase api.SearchUseCase) *Handler {
	return &Handler{searchUseCase: searchUseCase}
}

// Search выполняет полнотекстовый поиск по видимым пользователю заметкам.
// Отсутствие совпадений - успешный ответ с пустым массивом.
func (h *Handler) Search(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSearch)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	query := ctx.Query("query")

	notes, err := h.searchUseCase.Search(requestCtx, userID, query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	return respond.Success(ctx, http.StatusOK, dto.NewNoteResponses(notes), MsgSearchCompleted)
}
