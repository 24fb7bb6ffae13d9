package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

type VoteHandler struct {
	svc      *service.VoteService
	sessions *service.SessionService
}

func NewVoteHandler(svc *service.VoteService, sessions *service.SessionService) *VoteHandler {
	return &VoteHandler{svc: svc, sessions: sessions}
}

// Toggle handles POST /api/features/:featureId/vote. The server decides
// add vs remove from current membership; the client sends no vote state.
func (h *VoteHandler) Toggle(c fiber.Ctx) error {
	featureID, errMsg := middleware.ValidateFeatureID(c.Params("featureId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	identity := h.sessions.Resolve(c.Context(), middleware.BearerToken(c))

	resp, err := h.svc.Toggle(c.Context(), identity, featureID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignInRequired):
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "SIGN_IN_REQUIRED", "Sign in to vote")
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Feature not found")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update vote")
		}
	}

	if resp.Upvoted {
		Metrics.VotesTotal.WithLabelValues("add").Inc()
	} else {
		Metrics.VotesTotal.WithLabelValues("remove").Inc()
	}

	return c.JSON(resp)
}
