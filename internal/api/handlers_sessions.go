package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/metrics"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/services"
)

const unknownPlatform = "unknown"

func (handler *Handler) CreateSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	var input services.SessionInput
	if ok, err := handler.bindJSON(c, &input, errInvalidSession); !ok {
		return err
	}

	session, err := handler.sessionService.Create(user.ID, input, requestDeviceInfo(c))
	if err != nil {
		return handler.serviceError(c, err)
	}

	metrics.RecordSession(session.TotalTime, session.AverageScore)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "session": session})
}

func (handler *Handler) ListSessions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	page, err := handler.sessionService.List(user.ID, c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultSessionPageSize))
	if err != nil {
		return handler.serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": page.Sessions,
		"pagination": paginationResponse{
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.Pages,
		},
	})
}

func (handler *Handler) ListSessionsByRange(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	from, to, err := parseSessionRange(c.Params("start"), c.Params("end"), handler.location)
	if err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, errInvalidDateRange)
	}

	sessions, err := handler.sessionService.ListRange(user.ID, from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "sessions": sessions})
}

func (handler *Handler) GetSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	session, err := handler.sessionService.Get(user.ID, c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "session": session})
}

func (handler *Handler) DeleteSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	if err := handler.sessionService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}

	metrics.RecordSessionsDeleted(1)
	return c.JSON(fiber.Map{"success": true, "message": handler.message(c, "message.session_deleted")})
}

func (handler *Handler) DeleteAllData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}

	deleted, err := handler.sessionService.DeleteAll(user.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}

	metrics.RecordSessionsDeleted(deleted)
	return c.JSON(fiber.Map{"success": true, "message": handler.message(c, "message.data_deleted")})
}

func requestDeviceInfo(c *fiber.Ctx) models.DeviceInfo {
	platform := strings.Trim(strings.TrimSpace(c.Get("Sec-CH-UA-Platform")), `"`)
	if platform == "" {
		platform = unknownPlatform
	}
	return models.DeviceInfo{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Platform:  platform,
	}
}
