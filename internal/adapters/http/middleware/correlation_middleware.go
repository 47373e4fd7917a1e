// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"noteshare/pkg/logger"
)

// HeaderCorrelationID задает имя заголовка сквозного идентификатора запроса.
const HeaderCorrelationID = "X-Correlation-Id"

const localsRequestContext = "requestContext"

// NewCorrelationMiddleware создает промежуточное ПО, присваивающее каждому
// запросу сквозной идентификатор. Входящий заголовок переиспользуется,
// отсутствующий генерируется заново.
func NewCorrelationMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		correlationID := ctx.Get(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = logger.GenerateRequestID()
		}

		requestCtx := logger.NewRequestIDContext(ctx.Context(), correlationID)

		ctx.Set(HeaderCorrelationID, correlationID)
		ctx.Locals(localsRequestContext, requestCtx)

		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса со сквозным идентификатором.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(localsRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
