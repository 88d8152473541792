package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/models"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	settings, err := handler.settingsService.Get(user.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	var update models.SettingsUpdate
	if ok, err := handler.bindJSON(c, &update, errInvalidSettings); !ok {
		return err
	}

	settings, err := handler.settingsService.Update(user.ID, update)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "settings": settings})
}
