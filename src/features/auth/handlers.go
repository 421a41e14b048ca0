package auth

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the OAuth web flow.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the auth feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StartAuth redirects the user's browser to the Yandex authorize page.
func (h *Handler) StartAuth(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("bad user id")
	}
	return c.Redirect(h.service.AuthorizeURL(userID), fiber.StatusFound)
}

// Callback serves the page that lifts the token out of the URL fragment.
// Yandex puts the token after "#", which never reaches the server, so a
// small script posts it back to CallbackToken.
func (h *Handler) Callback(c *fiber.Ctx) error {
	return c.Render("callback", fiber.Map{
		"Title": "Yamubot authorization",
	})
}

// tokenSubmission is the payload the callback page posts back.
type tokenSubmission struct {
	State string `json:"state" form:"state"`
	Token string `json:"access_token" form:"access_token"`
}

// CallbackToken receives the token from the callback page and stores it
// for the user the state was issued to.
func (h *Handler) CallbackToken(c *fiber.Ctx) error {
	var payload tokenSubmission
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("bad payload")
	}

	userID, ok := h.service.ResolveState(payload.State)
	if !ok {
		slog.Warn("Token submitted with unknown state", "state", payload.State)
		return c.Status(fiber.StatusForbidden).SendString("unknown or expired state")
	}

	token := ExtractToken(payload.Token)
	if token == "" {
		return c.Status(fiber.StatusBadRequest).SendString("no token in payload")
	}
	if err := h.service.SaveToken(c.Context(), userID, token); err != nil {
		slog.Error("Failed to store token from web flow", "userID", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("could not store token")
	}

	slog.Info("Account linked through web flow", "userID", userID)
	return c.Render("linked", fiber.Map{
		"Title": "Account linked",
	})
}
