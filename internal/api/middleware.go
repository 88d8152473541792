package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	c.Locals(contextLanguageKey, handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)))
	return c.Next()
}

// AuthRequired resolves the bearer token to an account and stores it in
// the request locals.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	user, err := handler.authService.Authenticate(token)
	if err != nil {
		handler.logger.Debugw("rejected bearer token", "path", c.Path(), "error", err)
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
