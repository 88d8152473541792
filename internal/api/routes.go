package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/terraincognita07/postura/internal/metrics"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api", handler.LanguageMiddleware)

	auth := api.Group("/auth", handler.AuthRateLimit)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	api.Put("/profile", handler.AuthRequired, handler.UpdateProfile)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)

	sessions := api.Group("/sessions", handler.AuthRequired)
	sessions.Post("", handler.CreateSession)
	sessions.Get("", handler.ListSessions)
	sessions.Get("/range/:start/:end", handler.ListSessionsByRange)
	sessions.Get("/:id", handler.GetSession)
	sessions.Delete("/:id", handler.DeleteSession)

	api.Get("/stats", handler.AuthRequired, handler.GetStats)
	api.Delete("/data", handler.AuthRequired, handler.DeleteAllData)
}
