package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

type FeatureHandler struct {
	svc      *service.FeatureService
	sessions *service.SessionService
}

func NewFeatureHandler(svc *service.FeatureService, sessions *service.SessionService) *FeatureHandler {
	return &FeatureHandler{svc: svc, sessions: sessions}
}

// List handles GET /api/features?sort=popular|newest
func (h *FeatureHandler) List(c fiber.Ctx) error {
	sortParam, errMsg := middleware.ValidateSort(fiber.Query[string](c, "sort"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}

	features, err := h.svc.List(c.Context(), model.SortOption(sortParam))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load features")
	}

	return c.JSON(features)
}

// Submit handles POST /api/features
func (h *FeatureHandler) Submit(c fiber.Ctx) error {
	var req model.SubmitRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	title, errMsg := middleware.ValidateTitle(req.Title)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Title = title

	description, errMsg := middleware.ValidateDescription(req.Description)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Description = description

	identity := h.sessions.Resolve(c.Context(), middleware.BearerToken(c))

	feature, err := h.svc.Submit(c.Context(), identity, req)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case err == service.ErrSignInRequired:
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "SIGN_IN_REQUIRED", "Sign in to submit a feature request")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit feature request")
		}
	}

	Metrics.SubmissionsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(feature)
}

// Stats handles GET /api/stats
func (h *FeatureHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch statistics")
	}
	return c.JSON(stats)
}
