package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

// ErrPolishDisabled is returned when no polish API is configured.
var ErrPolishDisabled = errors.New("polish service not configured")

// PolishService is a stateless request/response transform of a feature
// request's text through a generative text API (generateContent-style
// REST). Failures are surfaced once; no retry, no side effects; the
// caller keeps its original text.
type PolishService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewPolishService(baseURL, apiKey, modelName string) *PolishService {
	return &PolishService{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   modelName,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a polish API endpoint is configured.
func (s *PolishService) Enabled() bool {
	return s.baseURL != ""
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Polish rewrites the title and description for clarity. Empty fields in
// the model's answer fall back to the input.
func (s *PolishService) Polish(ctx context.Context, title, description string) (*model.PolishResponse, error) {
	if !s.Enabled() {
		return nil, ErrPolishDisabled
	}

	prompt := fmt.Sprintf(`You are a product manager assistant. Rewrite the following feature request to be clear, concise, and professional.
Maintain the original intent but improve grammar and clarity.
Respond with a JSON object of the shape {"title": string, "description": string}.

Input Title: %s
Input Description: %s`, title, description)

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-goog-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polish request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("polish response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polish api status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("polish response parse: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("polish api returned no candidates")
	}

	var out model.PolishResponse
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &out); err != nil {
		return nil, fmt.Errorf("polish result parse: %w", err)
	}

	if out.Title == "" {
		out.Title = title
	}
	if out.Description == "" {
		out.Description = description
	}
	return &out, nil
}
