// Package pipeline wires the suggestion-and-validation pipeline: input
// normalization, prompt composition, model invocation, concurrent
// authority lookups, and reconciliation. It exposes the single entry point
// the presentation layer calls.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/authority"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/normalize"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/prompt"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/reconcile"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/suggest"
	"golang.org/x/sync/errgroup"
)

const defaultLookupConcurrency = 4

// Pipeline runs one suggestion request end to end. It holds no per-request
// state; everything a request produces lives only for that call.
type Pipeline struct {
	generator         *suggest.Generator
	registry          *authority.Client
	providerName      string
	lookupConcurrency int
}

// New assembles a pipeline from its collaborators. lookupConcurrency
// bounds the registry fan-out; zero selects the default.
func New(generator *suggest.Generator, registry *authority.Client, providerName string, lookupConcurrency int) *Pipeline {
	if lookupConcurrency <= 0 {
		lookupConcurrency = defaultLookupConcurrency
	}
	return &Pipeline{
		generator:         generator,
		registry:          registry,
		providerName:      providerName,
		lookupConcurrency: lookupConcurrency,
	}
}

// Suggest is the pipeline entry point. Fatal errors abort the request with
// no partial result; per-candidate lookup failures fold into the result as
// a status value. Cancelling ctx propagates to the in-flight model call
// and registry lookups.
func (p *Pipeline) Suggest(ctx context.Context, input models.BibliographicInput, credential string) (*models.SuggestionResult, error) {
	desc, err := normalize.Normalize(input)
	if err != nil {
		return nil, err
	}

	req, err := prompt.Compose(desc)
	if err != nil {
		return nil, err
	}

	candidates, err := p.generator.Generate(ctx, req, credential)
	if err != nil {
		return nil, err
	}
	slog.Info("Generated candidate headings", "provider", p.providerName, "candidates", len(candidates))

	validated := p.validateAll(ctx, candidates)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := &models.SuggestionResult{
		Headings:    reconcile.Reconcile(validated),
		Provider:    p.providerName,
		Model:       p.generator.Model(),
		GeneratedAt: time.Now().UTC(),
	}
	return result, nil
}

// validateAll fans candidate lookups out to the registry with bounded
// concurrency. Lookups are independent; a failure on one becomes a
// lookup-failed status on that entry and never aborts the others.
func (p *Pipeline) validateAll(ctx context.Context, candidates []models.SubjectHeadingCandidate) []models.ValidatedHeading {
	validated := make([]models.ValidatedHeading, len(candidates))

	var g errgroup.Group
	g.SetLimit(p.lookupConcurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			validated[i] = p.registry.Lookup(ctx, candidate)
			return nil
		})
	}
	// Lookup never returns an error; failures are statuses.
	_ = g.Wait()

	return validated
}
