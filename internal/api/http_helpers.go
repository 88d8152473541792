package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/services"
)

const (
	errUnauthorized       = "unauthorized"
	errInvalidInput       = "invalid input"
	errInvalidCredentials = "invalid credentials"
	errEmailExists        = "email already exists"
	errWeakPassword       = "weak password"
	errInvalidProfile     = "invalid profile"
	errInvalidSettings    = "invalid settings"
	errInvalidSession     = "invalid session"
	errInvalidDateRange   = "invalid date range"
	errSessionNotFound    = "session not found"
	errSessionExists      = "session already exists"
	errTooManyAttempts    = "too many login attempts"
	errRateLimited        = "too many requests"
	errInternal           = "internal error"
)

var errorMessageKeys = map[string]string{
	errUnauthorized:       "error.unauthorized",
	errInvalidInput:       "error.invalid_input",
	errInvalidCredentials: "error.invalid_credentials",
	errEmailExists:        "error.email_exists",
	errWeakPassword:       "error.weak_password",
	errInvalidProfile:     "error.invalid_profile",
	errInvalidSettings:    "error.invalid_settings",
	errInvalidSession:     "error.invalid_session",
	errInvalidDateRange:   "error.invalid_date_range",
	errSessionNotFound:    "error.session_not_found",
	errSessionExists:      "error.session_exists",
	errTooManyAttempts:    "error.too_many_attempts",
	errRateLimited:        "error.rate_limited",
	errInternal:           "error.internal",
}

func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	message := code
	if key, ok := errorMessageKeys[code]; ok {
		message = handler.i18n.Translate(currentLanguage(c), key)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// serviceError maps service sentinels to HTTP responses and logs anything
// unexpected as a storage failure.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return handler.apiError(c, fiber.StatusNotFound, errSessionNotFound)
	case errors.Is(err, services.ErrSessionExists):
		return handler.apiError(c, fiber.StatusConflict, errSessionExists)
	case errors.Is(err, services.ErrSessionInvalid):
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidSession)
	case errors.Is(err, services.ErrSessionRangeInvalid):
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidDateRange)
	case errors.Is(err, services.ErrProfileInvalid):
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidProfile)
	case errors.Is(err, services.ErrSettingsInvalid):
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidSettings)
	case errors.Is(err, services.ErrEmailExists):
		return handler.apiError(c, fiber.StatusConflict, errEmailExists)
	case errors.Is(err, services.ErrWeakPassword):
		return handler.apiError(c, fiber.StatusBadRequest, errWeakPassword)
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidInput)
	case errors.Is(err, services.ErrInvalidCredentials):
		return handler.apiError(c, fiber.StatusUnauthorized, errInvalidCredentials)
	}

	handler.logger.Errorw("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return handler.apiError(c, fiber.StatusInternalServerError, errInternal)
}

func (handler *Handler) message(c *fiber.Ctx, key string) string {
	return handler.i18n.Translate(currentLanguage(c), key)
}
