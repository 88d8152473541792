package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/models"
)

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	var update models.ProfileUpdate
	if ok, err := handler.bindJSON(c, &update, errInvalidProfile); !ok {
		return err
	}

	updated, err := handler.profileService.Update(user.ID, update)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.respondWithUser(c, fiber.StatusOK, &updated, "")
}
