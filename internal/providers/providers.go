package providers

import (
	"context"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

// Config represents one generation call to an LLM provider. The API key is
// passed per call and never retained by the provider.
type Config struct {
	Model        string
	Temperature  float64
	APIKey       string
	Instructions string
	Prompt       string
	Payloads     []models.Payload
}

// Provider defines the interface for an LLM provider.
type Provider interface {
	Name() string
	Generate(ctx context.Context, config Config) (string, error)
}

// Failure classifies provider errors so the generator knows whether a
// retry can help.
type Failure int

const (
	FailureTransient Failure = iota
	FailureInvalidCredential
	FailureQuota
	FailureContentPolicy
)

// Error wraps a provider error with its failure classification. Errors not
// wrapped in Error are treated as transient.
type Error struct {
	Failure Failure
	Err     error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
