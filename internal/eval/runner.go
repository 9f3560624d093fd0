// Package eval runs the suggestion pipeline over a ground-truth dataset
// and scores the suggested headings against the cataloger-assigned ones.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval/dataset"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval/metrics"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/pipeline"
)

// Runner evaluates one pipeline configuration against a dataset.
type Runner struct {
	pipeline   *pipeline.Pipeline
	credential string
	provider   string
	model      string
}

func NewRunner(p *pipeline.Pipeline, credential, provider, model string) *Runner {
	return &Runner{
		pipeline:   p,
		credential: credential,
		provider:   provider,
		model:      model,
	}
}

// Run evaluates each record sequentially and returns the aggregate
// metrics. A record whose pipeline call fails is recorded with its error
// and does not stop the run.
func (r *Runner) Run(ctx context.Context, records []dataset.Record) (*metrics.AggregateResults, error) {
	results := make([]metrics.RecordResult, 0, len(records))

	for i, record := range records {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		slog.Info("Evaluating record", "index", i+1, "total", len(records), "identifier", record.Identifier)

		start := time.Now()
		result := metrics.RecordResult{
			Identifier: record.Identifier,
			Title:      record.Title,
			Author:     record.Author,
			Expected:   record.Headings,
		}

		input := models.BibliographicInput{Text: record.Text()}
		suggestion, err := r.pipeline.Suggest(ctx, input, r.credential)
		result.ProcessingTime = time.Since(start)

		if err != nil {
			result.Error = fmt.Sprintf("pipeline failed: %v", err)
			slog.Warn("Record evaluation failed", "identifier", record.Identifier, "err", err)
			results = append(results, result)
			continue
		}

		for _, h := range suggestion.Headings {
			result.Suggested = append(result.Suggested, displayLabel(h))
			if h.Status == models.StatusConfirmed || h.Status == models.StatusConfirmedVariant {
				result.Confirmed++
			}
		}
		result.Score = metrics.Compare(result.Expected, result.Suggested)

		results = append(results, result)
	}

	return metrics.Aggregate(results, r.provider, r.model), nil
}

// displayLabel prefers the registry's canonical label over what the model
// wrote, matching what a cataloger would record.
func displayLabel(h models.SuggestedHeading) string {
	if h.CanonicalLabel != "" {
		return h.CanonicalLabel
	}
	return h.Candidate.Label
}
