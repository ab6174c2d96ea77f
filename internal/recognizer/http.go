package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// HTTPClient talks to the recognition service over HTTP.
type HTTPClient struct {
	config Config
	client *http.Client
}

// NewHTTPClient creates an HTTPClient with the given configuration.
// Zero-value config fields fall back to the package defaults.
func NewHTTPClient(config Config) *HTTPClient {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.HealthTimeout <= 0 {
		config.HealthTimeout = defaults.HealthTimeout
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = defaults.UploadTimeout
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{},
	}
}

// Health probes GET /api/health with the health timeout.
func (c *HTTPClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// detectResponse mirrors the service's detection payload. All fields are
// optional; absent data is treated as no hand.
type detectResponse struct {
	HandDetected *bool     `json:"hand_detected"`
	Sign         string    `json:"sign"`
	Confidence   float64   `json:"confidence"`
	Landmarks    []float64 `json:"landmarks"`
	Error        string    `json:"error"`
}

// DetectSign uploads a JPEG frame as the multipart field "image" to
// POST /api/detect-sign and parses the recognition result.
func (c *HTTPClient) DetectSign(ctx context.Context, jpeg []byte) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.UploadTimeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(jpeg); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/detect-sign", &body)
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("detect upload: unexpected status %d", resp.StatusCode)
	}

	var payload detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// Unparseable body counts as no detection, not a transport error.
		return &Result{}, nil
	}

	return resultFrom(payload), nil
}

// resultFrom folds a raw payload into a Result. Hand presence is the
// explicit flag, or a non-empty landmark list, or a confidence above the
// sanity floor.
func resultFrom(payload detectResponse) *Result {
	r := &Result{
		Sign:       strings.TrimSpace(payload.Sign),
		Confidence: payload.Confidence,
		Landmarks:  payload.Landmarks,
	}

	switch {
	case payload.HandDetected != nil && *payload.HandDetected:
		r.HandDetected = true
	case len(payload.Landmarks) > 0:
		r.HandDetected = true
	case payload.Confidence > HandConfidenceFloor:
		r.HandDetected = true
	}

	return r
}
