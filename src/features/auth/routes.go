package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the OAuth web flow routes.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	app.Get("/auth/:user", handler.StartAuth)
	app.Get("/callback", handler.Callback)
	app.Post("/callback/token", handler.CallbackToken)
}
