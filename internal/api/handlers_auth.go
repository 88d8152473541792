package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/postura/internal/metrics"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if ok, err := handler.bindJSON(c, &input, errInvalidInput); !ok {
		return err
	}

	user, token, err := handler.authService.Register(services.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Profile: models.Profile{
			Name:        input.Name,
			Age:         input.Age,
			Gender:      input.Gender,
			Height:      input.Height,
			Weight:      input.Weight,
			FitnessGoal: input.FitnessGoal,
		},
	})
	metrics.RecordAuthAttempt("register", err == nil)
	if err != nil {
		return handler.serviceError(c, err)
	}

	handler.logger.Infow("account registered", "user_id", user.ID)
	return handler.respondWithUser(c, fiber.StatusCreated, &user, token)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return handler.apiError(c, fiber.StatusTooManyRequests, errTooManyAttempts)
	}

	var input loginInput
	if ok, err := handler.bindJSON(c, &input, errInvalidInput); !ok {
		return err
	}

	user, token, err := handler.authService.Login(input.Email, input.Password)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		handler.loginLimiter.fail(limiterKey, now)
		return handler.serviceError(c, err)
	}
	handler.loginLimiter.clear(limiterKey)

	return handler.respondWithUser(c, fiber.StatusOK, &user, token)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, errUnauthorized)
	}
	return handler.respondWithUser(c, fiber.StatusOK, user, "")
}

func (handler *Handler) respondWithUser(c *fiber.Ctx, status int, user *models.User, token string) error {
	settings, err := handler.settingsService.Get(user.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}

	payload := fiber.Map{
		"success": true,
		"user":    buildUserResponse(user, settings),
	}
	if token != "" {
		payload["token"] = token
	}
	return c.Status(status).JSON(payload)
}

func buildUserResponse(user *models.User, settings models.Settings) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Age:         user.Age,
		Gender:      user.Gender,
		Height:      user.Height,
		Weight:      user.Weight,
		FitnessGoal: user.FitnessGoal,
		Settings:    settings,
		CreatedAt:   user.CreatedAt,
		LastActive:  user.LastActive,
	}
}
