package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/posture"
)

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	var (
		summary posture.Summary
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(c.Query("window"))) {
	case "", "all":
		summary, err = handler.statsService.Summary(user.ID)
	case "week":
		summary, err = handler.statsService.Weekly(user.ID)
	default:
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidInput)
	}
	if err != nil {
		return handler.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "stats": summary})
}
