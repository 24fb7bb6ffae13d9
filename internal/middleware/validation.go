package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxTitleLen       = 200  // features.title, trimmed
	MaxDescriptionLen = 4000 // features.description, trimmed
	MaxUserIDLen      = 64   // feature_votes.user_id VARCHAR(64)
)

var (
	// featureIDRe matches store-assigned feature ids (UUID format).
	featureIDRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	// userIDRe matches user ids: hex SHA256 digests.
	userIDRe = regexp.MustCompile(`^[0-9a-f]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateFeatureID checks that a feature id is a well-formed UUID.
func ValidateFeatureID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "featureId is required"
	}
	if !featureIDRe.MatchString(id) {
		return "", "featureId must be a UUID"
	}
	return id, ""
}

// ValidateUserID checks that a user id is a valid hex hash.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !userIDRe.MatchString(id) {
		return "", "userId must be a hexadecimal hash"
	}
	return id, ""
}

// ValidateTitle trims the title and enforces the length limit. Emptiness
// is the service's concern; over-length is rejected here.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if len(title) > MaxTitleLen {
		return "", "title must be at most 200 characters"
	}
	return title, ""
}

// ValidateDescription trims the description and enforces the length limit.
func ValidateDescription(description string) (string, string) {
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLen {
		return "", "description must be at most 4000 characters"
	}
	return description, ""
}

// ValidateSort normalizes the sort query parameter. Empty defaults to
// popular; anything else must name a known mode.
func ValidateSort(sort string) (string, string) {
	sort = strings.ToLower(strings.TrimSpace(sort))
	switch sort {
	case "":
		return "popular", ""
	case "popular", "newest":
		return sort, ""
	default:
		return "", "sort must be popular or newest"
	}
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns "" if absent or malformed.
func BearerToken(c fiber.Ctx) string {
	auth := c.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
