package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/domain/entities"
	"noteshare/internal/ports/cache"
	"noteshare/internal/ports/repositories"
	"noteshare/internal/ports/services"
	"noteshare/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoToken        = "no access token provided"
	ErrorInvalidToken   = "invalid or expired access token"
	ErrorUnknownUser    = "session user no longer exists"
	ErrorSessionLookup  = "error resolving session user"
	MsgSessionCacheHit  = "session resolved from cache"
	MsgSessionCacheMiss = "session resolved from database"
)

// CookieAccessToken задает имя cookie с access токеном.
const CookieAccessToken = "accessToken"

const (
	localsUserID = "userID"
	localsUser   = "user"

	sessionKeyPrefix = "session:"
)

// NewAuthMiddleware создает промежуточное ПО аутентификации. Токен принимается
// из cookie или заголовка Authorization и должен разрешаться в существующего
// пользователя. Профиль кэшируется в Redis на время жизни access токена.
func NewAuthMiddleware(
	tokenService services.TokenService,
	userRepo repositories.UserRepository,
	sessionCache cache.SessionCache,
) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		tokenString := extractToken(ctx)
		if tokenString == "" {
			log.Debug(requestCtx, ErrorNoToken)
			return respond.Error(ctx, http.StatusUnauthorized, ErrorNoToken)
		}

		userID, err := tokenService.ValidateAccessToken(requestCtx, tokenString)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return respond.Error(ctx, http.StatusUnauthorized, ErrorInvalidToken)
		}

		user, err := resolveUser(requestCtx, userID, userRepo, sessionCache)
		if err != nil {
			if errors.Is(err, entities.ErrUserNotFound) {
				log.Debug(requestCtx, ErrorUnknownUser, zap.String("userID", userID))
				return respond.Error(ctx, http.StatusUnauthorized, ErrorUnknownUser)
			}
			log.Error(requestCtx, ErrorSessionLookup, zap.Error(err))
			return respond.Error(ctx, http.StatusInternalServerError, ErrorSessionLookup)
		}

		ctx.Locals(localsUserID, userID)
		ctx.Locals(localsUser, user)

		return ctx.Next()
	}
}

// extractToken извлекает access токен из cookie или заголовка Authorization.
func extractToken(ctx fiber.Ctx) string {
	if token := ctx.Cookies(CookieAccessToken); token != "" {
		return token
	}

	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// resolveUser разрешает идентификатор сессии в профиль пользователя,
// сначала через кэш, затем через базу данных.
func resolveUser(
	ctx context.Context,
	userID string,
	userRepo repositories.UserRepository,
	sessionCache cache.SessionCache,
) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("middleware", "auth"), zap.String("userID", userID))

	cached, err := sessionCache.Get(ctx, sessionKeyPrefix+userID)
	if err == nil && cached != "" {
		var user entities.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			log.Debug(ctx, MsgSessionCacheHit)
			return &user, nil
		}
	}

	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	if payload, err := json.Marshal(sanitized); err == nil {
		if err := sessionCache.Set(ctx, sessionKeyPrefix+userID, string(payload), 0); err != nil {
			log.Debug(ctx, "failed to cache session user", zap.Error(err))
		}
	}

	log.Debug(ctx, MsgSessionCacheMiss)
	return sanitized, nil
}

// UserID возвращает идентификатор аутентифицированного пользователя запроса.
func UserID(ctx fiber.Ctx) (string, bool) {
	userID, ok := ctx.Locals(localsUserID).(string)
	return userID, ok
}

// User возвращает профиль аутентифицированного пользователя запроса.
func User(ctx fiber.Ctx) (*entities.User, bool) {
	user, ok := ctx.Locals(localsUser).(*entities.User)
	return user, ok
}

// InvalidateSession удаляет кэшированный профиль пользователя.
func InvalidateSession(ctx context.Context, sessionCache cache.SessionCache, userID string) {
	if err := sessionCache.Delete(ctx, sessionKeyPrefix+userID); err != nil {
		logger.Log(ctx).Debug(ctx, "failed to invalidate session cache", zap.Error(err))
	}
}
