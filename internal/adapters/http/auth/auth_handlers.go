// Package auth содержит HTTP обработчики регистрации и управления сессией.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"noteshare/internal/adapters/http/dto"
	"noteshare/internal/adapters/http/middleware"
	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/domain/entities"
	"noteshare/internal/domain/services"
	"noteshare/internal/ports/api"
	"noteshare/internal/ports/cache"
	"noteshare/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSignUp = "auth handler: sign up"
	LogHandlerLogin  = "auth handler: login"
	LogHandlerLogout = "auth handler: logout"

	ErrorInvalidRequest       = "invalid request"
	ErrorValidationFailed     = "validation failed"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorInternal             = "internal server error"

	MsgUserCreated = "user registered successfully"
	MsgLoggedIn    = "logged in successfully"
	MsgLoggedOut   = "logged out successfully"
)

// CookieRefreshToken задает имя cookie с refresh токеном.
const CookieRefreshToken = "refreshToken"

// Handler содержит HTTP обработчики авторизации.
type Handler struct {
	authUseCase     api.AuthUseCase
	sessionCache    cache.SessionCache
	refreshTokenTTL time.Duration
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authUseCase api.AuthUseCase, sessionCache cache.SessionCache, refreshTokenTTL time.Duration) *Handler {
	return &Handler{
		authUseCase:     authUseCase,
		sessionCache:    sessionCache,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// SignUp обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) SignUp(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSignUp)

	var req dto.SignUpRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := dto.Validator.Struct(req); err != nil {
		return respond.ErrorWithFields(ctx, http.StatusBadRequest, ErrorValidationFailed, dto.FieldErrors(err))
	}

	user, err := h.authUseCase.SignUp(requestCtx, req.Username, req.FullName, req.Email, req.Password)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrUserAlreadyExists) {
			return respond.Error(ctx, http.StatusConflict, "user with this email or username already exists")
		}
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	return respond.Success(ctx, http.StatusCreated, dto.NewUserResponse(user), MsgUserCreated)
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := dto.Validator.Struct(req); err != nil {
		return respond.ErrorWithFields(ctx, http.StatusBadRequest, ErrorValidationFailed, dto.FieldErrors(err))
	}

	result, err := h.authUseCase.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		switch {
		case errors.Is(err, entities.ErrUserNotFound):
			return respond.Error(ctx, http.StatusNotFound, "no account found for this email")
		case errors.Is(err, services.ErrInvalidCredentials):
			return respond.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		default:
			return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
		}
	}

	h.setSessionCookies(ctx, result.TokenPair)

	response := dto.LoginResponse{
		User:         dto.NewUserResponse(result.User),
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
	}

	return respond.Success(ctx, http.StatusOK, response, MsgLoggedIn)
}

// Logout обрабатывает запрос на выход пользователя.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.Error(ctx, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.authUseCase.Logout(requestCtx, userID); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, http.StatusInternalServerError, ErrorInternal)
	}

	middleware.InvalidateSession(requestCtx, h.sessionCache, userID)
	h.clearSessionCookies(ctx)

	return respond.Success(ctx, http.StatusOK, nil, MsgLoggedOut)
}

// setSessionCookies устанавливает cookie сессии с парой токенов.
func (h *Handler) setSessionCookies(ctx fiber.Ctx, tokens *services.TokenPair) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieAccessToken,
		Value:    tokens.AccessToken,
		Expires:  tokens.ExpiresAt,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieRefreshToken,
		Value:    tokens.RefreshToken,
		Expires:  time.Now().Add(h.refreshTokenTTL),
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
	})
}

// clearSessionCookies сбрасывает cookie сессии.
func (h *Handler) clearSessionCookies(ctx fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieAccessToken,
		Value:    "",
		Expires:  expired,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieRefreshToken,
		Value:    "",
		Expires:  expired,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
	})
}
