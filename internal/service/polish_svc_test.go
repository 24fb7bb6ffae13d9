package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func polishServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func generateContentReply(text string) string {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestPolish_Success(t *testing.T) {
	srv := polishServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generateContentReply(`{"title":"Add dark mode","description":"Support a dark color scheme."}`)))
	})

	svc := NewPolishService(srv.URL, "test-key", "test-model")
	out, err := svc.Polish(context.Background(), "dark mode plz", "make it dark")
	if err != nil {
		t.Fatalf("Polish failed: %v", err)
	}
	if out.Title != "Add dark mode" {
		t.Errorf("title = %q", out.Title)
	}
	if out.Description != "Support a dark color scheme." {
		t.Errorf("description = %q", out.Description)
	}
}

func TestPolish_EmptyFieldsFallBackToInput(t *testing.T) {
	srv := polishServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(generateContentReply(`{"title":"","description":"Better."}`)))
	})

	svc := NewPolishService(srv.URL, "", "test-model")
	out, err := svc.Polish(context.Background(), "original title", "original description")
	if err != nil {
		t.Fatalf("Polish failed: %v", err)
	}
	if out.Title != "original title" {
		t.Errorf("empty polished title should fall back to input, got %q", out.Title)
	}
	if out.Description != "Better." {
		t.Errorf("description = %q", out.Description)
	}
}

func TestPolish_QuotaFailure(t *testing.T) {
	srv := polishServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429}}`, http.StatusTooManyRequests)
	})

	svc := NewPolishService(srv.URL, "", "test-model")
	if _, err := svc.Polish(context.Background(), "t", "d"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestPolish_MalformedResult(t *testing.T) {
	srv := polishServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(generateContentReply(`not json at all`)))
	})

	svc := NewPolishService(srv.URL, "", "test-model")
	if _, err := svc.Polish(context.Background(), "t", "d"); err == nil {
		t.Fatal("expected parse error for non-JSON model output")
	}
}

func TestPolish_Disabled(t *testing.T) {
	svc := NewPolishService("", "", "test-model")
	if svc.Enabled() {
		t.Error("service with no URL should report disabled")
	}
	_, err := svc.Polish(context.Background(), "t", "d")
	if !errors.Is(err, ErrPolishDisabled) {
		t.Fatalf("expected ErrPolishDisabled, got %v", err)
	}
}
