package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

var (
	// ErrSignInRequired is returned when an operation that needs an
	// identity is dispatched without one. The caller's remedy is sign-in,
	// not retry.
	ErrSignInRequired = errors.New("sign-in required")
)

// ValidationError rejects malformed input before the store is contacted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Feed error codes surfaced to subscribers.
const (
	FeedErrAccessDenied = "ACCESS_DENIED"
	FeedErrConnectivity = "CONNECTIVITY"
)

// ClassifyFeedError maps a snapshot-source failure into the two
// user-facing categories: access-control failures (SQLSTATE 42501 and
// class 28, or a permission-denied message) vs everything else, which is
// treated as connectivity.
func ClassifyFeedError(err error) model.FeedError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "42501" || strings.HasPrefix(pgErr.Code, "28") {
			return model.FeedError{
				Code:    FeedErrAccessDenied,
				Message: "Access denied by the store's security policy.",
			}
		}
	}
	if strings.Contains(err.Error(), "permission denied") {
		return model.FeedError{
			Code:    FeedErrAccessDenied,
			Message: "Access denied by the store's security policy.",
		}
	}
	return model.FeedError{
		Code:    FeedErrConnectivity,
		Message: "Failed to load features. Check the connection.",
	}
}
