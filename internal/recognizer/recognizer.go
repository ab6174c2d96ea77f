// Package recognizer provides the client for the remote sign-recognition service.
package recognizer

import (
	"context"
	"time"
)

// Default client settings.
const (
	// DefaultBaseURL is the recognition service address.
	DefaultBaseURL = "http://localhost:5000"
	// DefaultHealthTimeout bounds the liveness probe.
	DefaultHealthTimeout = 5 * time.Second
	// DefaultUploadTimeout bounds a single frame upload.
	DefaultUploadTimeout = 6 * time.Second
	// HandConfidenceFloor is the sanity floor above which a bare
	// confidence value counts as hand presence.
	HandConfidenceFloor = 0.3
)

// Result is the outcome of one detection cycle against the service.
type Result struct {
	HandDetected bool
	Sign         string
	Confidence   float64
	Landmarks    []float64
}

// Client defines the interface to the recognition service.
type Client interface {
	// Health probes service liveness. Any 2xx response is healthy.
	Health(ctx context.Context) error

	// DetectSign uploads a JPEG frame and returns the recognition result.
	// Malformed or absent detection data yields a no-hand result, not an error.
	DetectSign(ctx context.Context, jpeg []byte) (*Result, error)
}

// Config holds configuration options for the recognition client.
type Config struct {
	BaseURL       string
	HealthTimeout time.Duration
	UploadTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		HealthTimeout: DefaultHealthTimeout,
		UploadTimeout: DefaultUploadTimeout,
	}
}
