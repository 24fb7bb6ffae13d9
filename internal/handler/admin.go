package handler

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

// AdminHandler carries the administrative surface. Status is read-only
// for users; this is the one external actor that may move it.
type AdminHandler struct {
	svc        *service.FeatureService
	adminToken string
}

func NewAdminHandler(svc *service.FeatureService, adminToken string) *AdminHandler {
	return &AdminHandler{svc: svc, adminToken: adminToken}
}

// UpdateStatus handles PATCH /api/admin/features/:featureId/status.
func (h *AdminHandler) UpdateStatus(c fiber.Ctx) error {
	if h.adminToken == "" {
		return middleware.ErrorResponse(c, fiber.StatusNotImplemented, "ADMIN_DISABLED", "No admin token configured")
	}
	token := middleware.BearerToken(c)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Invalid admin token")
	}

	featureID, errMsg := middleware.ValidateFeatureID(c.Params("featureId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.StatusUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	err := h.svc.UpdateStatus(c.Context(), featureID, req.Status)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Feature not found")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
