// Package dto содержит модели HTTP запросов и ответов вместе с правилами их валидации.
package dto

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"noteshare/internal/adapters/http/respond"
)

// Validator проверяет модели запросов по их struct-тегам.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Пароль: минимум одна буква и одна цифра.
	_ = v.RegisterValidation("password_chars", func(fl validator.FieldLevel) bool {
		var hasLetter, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		return hasLetter && hasDigit
	})

	return v
}

// fieldMessages содержит человекочитаемые сообщения для правил валидации.
var fieldMessages = map[string]string{
	"required":       "is required",
	"email":          "must be a valid email address",
	"min":            "is too short",
	"max":            "is too long",
	"uuid4":          "must be a valid id",
	"uuid":           "must be a valid id",
	"password_chars": "must contain at least one letter and one digit",
}

// FieldErrors преобразует ошибку валидатора в список ошибок по полям.
func FieldErrors(err error) []respond.FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []respond.FieldError{{Field: "body", Message: "invalid request body"}}
	}

	fields := make([]respond.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		message, ok := fieldMessages[fe.Tag()]
		if !ok {
			message = "is invalid"
		}
		fields = append(fields, respond.FieldError{
			Field:   lowerFirst(fe.Field()),
			Message: message,
		})
	}
	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
