// Package http содержит компоненты HTTP сервера.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"noteshare/internal/adapters/http/auth"
	"noteshare/internal/adapters/http/middleware"
	"noteshare/internal/adapters/http/notes"
	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/adapters/http/search"
	"noteshare/internal/ports/api"
	"noteshare/internal/ports/cache"
	"noteshare/internal/ports/repositories"
	"noteshare/internal/ports/services"
)

// RouterDeps содержит зависимости маршрутизатора.
type RouterDeps struct {
	AuthUseCase     api.AuthUseCase
	NotesUseCase    api.NotesUseCase
	SearchUseCase   api.SearchUseCase
	TokenService    services.TokenService
	UserRepository  repositories.UserRepository
	SessionCache    cache.SessionCache
	RefreshTokenTTL time.Duration
	PingDB          func(context.Context) error
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps RouterDeps) {
	authHandler := auth.NewHandler(deps.AuthUseCase, deps.SessionCache, deps.RefreshTokenTTL)
	notesHandler := notes.NewHandler(deps.NotesUseCase)
	searchHandler := search.NewHandler(deps.SearchUseCase)

	requireAuth := middleware.NewAuthMiddleware(deps.TokenService, deps.UserRepository, deps.SessionCache)

	// Middleware для всех запросов.
	app.Use(middleware.NewCorrelationMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Liveness probe.
	app.Get("/healthz", func(ctx fiber.Ctx) error {
		if deps.PingDB != nil {
			if err := deps.PingDB(middleware.RequestContext(ctx)); err != nil {
				return respond.Error(ctx, http.StatusServiceUnavailable, "database unreachable")
			}
		}
		return respond.Success(ctx, http.StatusOK, fiber.Map{"status": "ok"}, "service is healthy")
	})

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes.
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/signup", authHandler.SignUp)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout, requireAuth)

	// Маршруты заметок (требуют авторизации).
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(requireAuth)
	notesRoutes.Get("/", notesHandler.List)
	notesRoutes.Get("/:noteId", notesHandler.Get)
	notesRoutes.Post("/", notesHandler.Create)
	notesRoutes.Put("/:noteId", notesHandler.Update)
	notesRoutes.Delete("/:noteId", notesHandler.Delete)
	notesRoutes.Post("/:noteId/share", notesHandler.Share)

	// Маршрут поиска (требует авторизации).
	searchRoutes := apiV1.Group("/search")
	searchRoutes.Use(requireAuth)
	searchRoutes.Get("/", searchHandler.Search)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(ctx fiber.Ctx) error {
		return respond.Error(ctx, http.StatusNotFound, "route not found")
	})
}
