// Package gemini provides the exercise extractor backed by the Google
// Gemini generateContent API with structured output.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles calls proactively; the free
	// tier rejects bursts well below its documented quota.
	DefaultRequestsPerSecond = 0.5
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Config holds configuration for the Gemini extractor.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: the public endpoint).
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle rate (default: 0.5).
	RequestsPerSecond float64
}

// Extractor classifies page images into exercise candidates.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// NewExtractor creates a new Gemini extractor.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// generateRequest is the generateContent request format.
type generateRequest struct {
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction *content         `json:"system_instruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"response_mime_type"`
	ResponseSchema   map[string]any `json:"response_schema"`
}

// generateResponse is the subset of the response envelope we consume.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// pagePayload is the structured output for a single-page extraction.
type pagePayload struct {
	Exercises []struct {
		Name         string   `json:"name"`
		ExerciseType string   `json:"exerciseType"`
		Tags         []string `json:"tags"`
	} `json:"exercises"`
}

// documentPayload is the structured output for a whole-document
// extraction.
type documentPayload struct {
	CourseName string `json:"courseName"`
	Exercises  []struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	} `json:"exercises"`
}

// ExtractPage classifies one page image into exercise candidates.
func (e *Extractor) ExtractPage(ctx context.Context, input driven.PageInput) ([]domain.Exercise, error) {
	encoded, err := resolveInput(input)
	if err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MIMEType: "image/png", Data: encoded}},
				{Text: pagePrompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   pageSchema(),
		},
		SystemInstruction: &content{
			Parts: []part{{Text: systemInstruction}},
		},
	}

	var payload pagePayload
	if err := e.generate(ctx, req, &payload); err != nil {
		return nil, err
	}
	logger.Debug("gemini returned %d exercise candidates", len(payload.Exercises))

	exercises := make([]domain.Exercise, 0, len(payload.Exercises))
	now := time.Now().UTC()
	for _, cand := range payload.Exercises {
		exercises = append(exercises, domain.Exercise{
			ID:        uuid.NewString(),
			Name:      cand.Name,
			Tags:      domain.NormalizeTags(cand.ExerciseType, cand.Tags),
			CreatedAt: now,
		})
	}
	return exercises, nil
}

// ExtractDocument classifies all pages of a document in a single call.
func (e *Extractor) ExtractDocument(ctx context.Context, pages []string) (*domain.DocumentExtraction, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages provided", domain.ErrInvalidInput)
	}

	parts := make([]part, 0, len(pages)+1)
	for _, page := range pages {
		parts = append(parts, part{
			InlineData: &inlineData{MIMEType: "image/png", Data: domain.StripDataURL(page)},
		})
	}
	parts = append(parts, part{Text: documentPrompt})

	req := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   documentSchema(),
		},
	}

	var payload documentPayload
	if err := e.generate(ctx, req, &payload); err != nil {
		return nil, err
	}

	result := &domain.DocumentExtraction{CourseName: payload.CourseName}
	now := time.Now().UTC()
	for _, cand := range payload.Exercises {
		var tags []string
		if len(cand.Tags) > 0 {
			// The schema mandates the classification as the first tag.
			tags = domain.NormalizeTags(cand.Tags[0], cand.Tags[1:])
		}
		result.Exercises = append(result.Exercises, domain.Exercise{
			ID:        uuid.NewString(),
			Name:      cand.Name,
			Tags:      tags,
			CreatedAt: now,
		})
	}
	return result, nil
}

// generate posts a request to the generateContent endpoint and parses
// the structured text payload into out.
func (e *Extractor) generate(ctx context.Context, req generateRequest, out any) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", e.baseURL, e.model, e.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Carry status and body verbatim for diagnostics.
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamService, resp.StatusCode, respBody)
	}

	var envelope generateResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("%w: no text in response", domain.ErrSchemaMismatch)
	}

	text := envelope.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}
	return nil
}

// resolveInput normalizes the page input to bare base64: inline data
// loses its data-URL prefix, file paths are read and encoded. A missing
// file is a fatal error.
func resolveInput(input driven.PageInput) (string, error) {
	if input.Inline != "" {
		return domain.StripDataURL(input.Inline), nil
	}
	if input.Path != "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return "", fmt.Errorf("reading page image: %w", err)
		}
		return base64.StdEncoding.EncodeToString(data), nil
	}
	return "", fmt.Errorf("%w: no image provided", domain.ErrInvalidInput)
}
