package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

type PolishHandler struct {
	svc *service.PolishService
}

func NewPolishHandler(svc *service.PolishService) *PolishHandler {
	return &PolishHandler{svc: svc}
}

// Polish handles POST /api/polish, a stateless text transform. On any
// failure the client keeps its entered text; nothing is stored.
func (h *PolishHandler) Polish(c fiber.Ctx) error {
	var req model.PolishRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	title, errMsg := middleware.ValidateTitle(req.Title)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	description, errMsg := middleware.ValidateDescription(req.Description)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Polish(c.Context(), title, description)
	if err != nil {
		if errors.Is(err, service.ErrPolishDisabled) {
			return middleware.ErrorResponse(c, fiber.StatusNotImplemented, "POLISH_DISABLED", "Text polish is not configured")
		}
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "POLISH_FAILED", "Failed to polish content")
	}

	return c.JSON(resp)
}
