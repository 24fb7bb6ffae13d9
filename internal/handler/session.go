package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Resolve handles POST /api/session: resolve-or-create an anonymous
// identity. Presenting a valid bearer token returns the same identity;
// otherwise a new session is issued.
func (h *SessionHandler) Resolve(c fiber.Ctx) error {
	resp, err := h.sessions.ResolveOrCreate(c.Context(), middleware.BearerToken(c))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve identity")
	}
	return c.JSON(resp)
}

// Current handles GET /api/session: the identity behind the bearer token.
func (h *SessionHandler) Current(c fiber.Ctx) error {
	identity := h.sessions.Resolve(c.Context(), middleware.BearerToken(c))
	if identity == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "SIGN_IN_REQUIRED", "No active session")
	}
	return c.JSON(identity)
}

// SignOut handles DELETE /api/session.
func (h *SessionHandler) SignOut(c fiber.Ctx) error {
	if err := h.sessions.SignOut(c.Context(), middleware.BearerToken(c)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out")
	}
	return c.JSON(fiber.Map{"success": true})
}
