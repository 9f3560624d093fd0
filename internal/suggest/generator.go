// Package suggest invokes the language model and turns its response into a
// bounded, deduplicated list of candidate subject headings.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/prompt"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
)

const (
	// MaxCandidates bounds downstream validation cost. When the model
	// returns more, the lowest-confidence entries are dropped.
	MaxCandidates = 15

	defaultMaxAttempts = 3
	defaultTimeout     = 90 * time.Second
	defaultBackoff     = 500 * time.Millisecond
	defaultTemperature = 0.2
)

// Generator calls an LLM provider and enforces the candidate response
// shape.
type Generator struct {
	provider    providers.Provider
	model       string
	temperature float64
	maxAttempts int
	timeout     time.Duration
	backoff     time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout sets the overall time budget for one Generate call,
// covering all retry attempts.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithMaxAttempts sets the retry ceiling for transient failures.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) { g.maxAttempts = n }
}

// WithTemperature sets the sampling temperature passed to the provider.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithBackoff sets the base delay of the exponential backoff between
// attempts.
func WithBackoff(d time.Duration) Option {
	return func(g *Generator) { g.backoff = d }
}

// NewGenerator creates a Generator for the given provider and model. An
// empty model lets the provider pick its default.
func NewGenerator(provider providers.Provider, model string, opts ...Option) *Generator {
	g := &Generator{
		provider:    provider,
		model:       model,
		temperature: defaultTemperature,
		maxAttempts: defaultMaxAttempts,
		timeout:     defaultTimeout,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends the composed request to the model and parses the response
// into candidates. Transient provider failures and malformed responses are
// retried with exponential backoff up to the attempt ceiling; permanent
// failures surface immediately. The credential is used only for the
// outbound call and never stored.
func (g *Generator) Generate(ctx context.Context, req prompt.Request, credential string) ([]models.SubjectHeadingCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := providers.Config{
		Model:        g.model,
		Temperature:  g.temperature,
		APIKey:       credential,
		Instructions: req.Instructions,
		Prompt:       req.Text,
		Payloads:     req.Payloads,
	}

	var lastErr error
	malformed := false
	delay := g.backoff

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		raw, err := g.provider.Generate(ctx, config)
		if err == nil {
			candidates, perr := parseCandidates(raw)
			if perr == nil {
				return capCandidates(dedupe(candidates)), nil
			}
			// Schema violations get another attempt like any transient
			// failure; the model often produces valid output on a retry.
			slog.Warn("Model response failed schema validation", "provider", g.provider.Name(), "attempt", attempt, "err", perr)
			lastErr, malformed = perr, true
		} else {
			if timeoutErr := timedOut(ctx, err); timeoutErr != nil {
				return nil, timeoutErr
			}
			if permErr := permanent(err); permErr != nil {
				return nil, permErr
			}
			slog.Warn("Model call failed, will retry", "provider", g.provider.Name(), "attempt", attempt, "err", err)
			lastErr, malformed = err, false
		}

		if attempt == g.maxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", models.ErrGenerationTimeout, ctx.Err())
		}
		delay *= 2
	}

	if malformed {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", models.ErrGenerationFailed, g.maxAttempts, lastErr)
}

// timedOut maps a context expiry to the timeout sentinel, distinguishing
// the time budget from the retry ceiling.
func timedOut(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrGenerationTimeout, err)
	}
	return nil
}

// permanent maps provider failure classes that retrying cannot fix to
// their pipeline sentinels. Transient and unclassified errors return nil.
func permanent(err error) error {
	var perr *providers.Error
	if !errors.As(err, &perr) {
		return nil
	}
	switch perr.Failure {
	case providers.FailureInvalidCredential:
		return fmt.Errorf("%w: %v", models.ErrInvalidCredential, err)
	case providers.FailureQuota:
		return fmt.Errorf("%w: %v", models.ErrQuotaExceeded, err)
	case providers.FailureContentPolicy:
		return fmt.Errorf("%w: %v", models.ErrContentPolicy, err)
	}
	return nil
}

// dedupe collapses candidates whose labels normalize to the same heading,
// keeping the highest-confidence instance and the original order.
func dedupe(candidates []models.SubjectHeadingCandidate) []models.SubjectHeadingCandidate {
	seen := make(map[string]int, len(candidates))
	out := make([]models.SubjectHeadingCandidate, 0, len(candidates))

	for _, c := range candidates {
		key := models.NormalizeLabel(c.Label)
		if i, ok := seen[key]; ok {
			if c.Confidence.Rank() > out[i].Confidence.Rank() {
				out[i] = c
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, c)
	}
	return out
}

// capCandidates keeps at most MaxCandidates entries, dropping the
// lowest-confidence ones while preserving model-output order among the
// survivors.
func capCandidates(candidates []models.SubjectHeadingCandidate) []models.SubjectHeadingCandidate {
	if len(candidates) <= MaxCandidates {
		return candidates
	}

	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return candidates[indices[a]].Confidence.Rank() > candidates[indices[b]].Confidence.Rank()
	})

	keep := make(map[int]bool, MaxCandidates)
	for _, i := range indices[:MaxCandidates] {
		keep[i] = true
	}

	out := make([]models.SubjectHeadingCandidate, 0, MaxCandidates)
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
