package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyFeedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, FeedErrAccessDenied},
		{"invalid authorization", &pgconn.PgError{Code: "28000"}, FeedErrAccessDenied},
		{"bad password", &pgconn.PgError{Code: "28P01"}, FeedErrAccessDenied},
		{"wrapped pg error", fmt.Errorf("load snapshot: %w", &pgconn.PgError{Code: "42501"}), FeedErrAccessDenied},
		{"permission message", errors.New("pq: permission denied for table features"), FeedErrAccessDenied},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, FeedErrConnectivity},
		{"plain network error", errors.New("dial tcp: connection refused"), FeedErrConnectivity},
		{"context deadline", errors.New("context deadline exceeded"), FeedErrConnectivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ClassifyFeedError(tt.err)
			if fe.Code != tt.want {
				t.Errorf("ClassifyFeedError(%v).Code = %s, want %s", tt.err, fe.Code, tt.want)
			}
			if fe.Message == "" {
				t.Error("classified error must carry a user-facing message")
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(&ValidationError{Msg: "title must not be empty"}) {
		t.Error("ValidationError should classify as validation")
	}
	if !IsValidation(fmt.Errorf("submit: %w", &ValidationError{Msg: "x"})) {
		t.Error("wrapped ValidationError should classify as validation")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("plain error should not classify as validation")
	}
}
