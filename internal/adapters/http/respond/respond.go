// Package respond содержит единый формат ответов HTTP API.
package respond

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// FieldError описывает ошибку валидации отдельного поля запроса.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SuccessEnvelope представляет тело успешного ответа.
type SuccessEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope представляет тело ответа с ошибкой.
type ErrorEnvelope struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors,omitempty"`
	Success    bool         `json:"success"`
}

// Success отправляет успешный ответ в едином конверте.
func Success(ctx fiber.Ctx, statusCode int, data any, message string) error {
	if err := ctx.Status(statusCode).JSON(SuccessEnvelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	}); err != nil {
		return fmt.Errorf("error sending success response: %w", err)
	}
	return nil
}

// Error отправляет ответ с ошибкой в едином конверте.
func Error(ctx fiber.Ctx, statusCode int, message string) error {
	return ErrorWithFields(ctx, statusCode, message, nil)
}

// ErrorWithFields отправляет ответ с ошибкой и списком ошибок по полям.
func ErrorWithFields(ctx fiber.Ctx, statusCode int, message string, fields []FieldError) error {
	if err := ctx.Status(statusCode).JSON(ErrorEnvelope{
		StatusCode: statusCode,
		Message:    message,
		Errors:     fields,
		Success:    false,
	}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}
