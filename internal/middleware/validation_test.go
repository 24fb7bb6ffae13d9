package middleware

import (
	"strings"
	"testing"
)

func TestValidateFeatureID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{"valid uuid", "550e8400-e29b-41d4-a716-446655440000", "550e8400-e29b-41d4-a716-446655440000", false},
		{"uppercase normalized", "550E8400-E29B-41D4-A716-446655440000", "550e8400-e29b-41d4-a716-446655440000", false},
		{"padded", "  550e8400-e29b-41d4-a716-446655440000 ", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty", "", "", true},
		{"not a uuid", "feature-123", "", true},
		{"sql injection", "550e8400'; DROP TABLE features;--", "", true},
		{"missing dashes", "550e8400e29b41d4a716446655440000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, errMsg := ValidateFeatureID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Fatal("expected error message, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Fatalf("unexpected error: %s", errMsg)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	valid := strings.Repeat("ab", 32) // 64 hex chars

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid hash", valid, false},
		{"short hex", "deadbeef", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"non-hex", "user@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateUserID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Fatal("expected error message, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Fatalf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateTitleAndDescription(t *testing.T) {
	if title, errMsg := ValidateTitle("  dark mode  "); errMsg != "" || title != "dark mode" {
		t.Errorf("ValidateTitle = %q, %q", title, errMsg)
	}
	if _, errMsg := ValidateTitle(strings.Repeat("x", MaxTitleLen+1)); errMsg == "" {
		t.Error("over-length title should be rejected")
	}
	if _, errMsg := ValidateDescription(strings.Repeat("x", MaxDescriptionLen+1)); errMsg == "" {
		t.Error("over-length description should be rejected")
	}
	// Empty is allowed here; the service owns the non-empty rule.
	if _, errMsg := ValidateTitle(""); errMsg != "" {
		t.Error("empty title is the service's rejection, not the validator's")
	}
}

func TestValidateSort(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "popular", false},
		{"popular", "popular", false},
		{"newest", "newest", false},
		{"NEWEST", "newest", false},
		{"trending", "", true},
	}

	for _, tt := range tests {
		got, errMsg := ValidateSort(tt.input)
		if tt.wantErr && errMsg == "" {
			t.Errorf("ValidateSort(%q): expected error", tt.input)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ValidateSort(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/features/550e8400-e29b-41d4-a716-446655440000/vote", "/api/features/:featureId/vote"},
		{"/api/features/feed", "/api/features/feed"},
		{"/api/features", "/api/features"},
		{"/api/stats", "/api/stats"},
		{"/api/admin/features/550e8400-e29b-41d4-a716-446655440000/status", "/api/admin/features/:featureId/status"},
	}

	for _, tt := range tests {
		if got := sanitizePath(tt.path); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
