// Package results writes evaluation reports to the evals/ directory.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig is the configuration section of the eval YAML.
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalResult is one record's entry in the report.
type EvalResult struct {
	Identifier string        `yaml:"identifier"`
	Title      string        `yaml:"title"`
	Author     string        `yaml:"author,omitempty"`
	Expected   []string      `yaml:"expected"`
	Suggested  []string      `yaml:"suggested"`
	Score      metrics.Score `yaml:"score"`
}

// EvalSummary is the aggregate section of the report.
type EvalSummary struct {
	TotalRecords     int     `yaml:"totalrecords"`
	SuccessCount     int     `yaml:"successcount"`
	FailureCount     int     `yaml:"failurecount"`
	Precision        float64 `yaml:"precision"`
	Recall           float64 `yaml:"recall"`
	F1               float64 `yaml:"f1"`
	ConfirmationRate float64 `yaml:"confirmationrate"`
}

// EvalSpec is the complete report document.
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML writes an evaluation report to evals/<model>-<timestamp>.yaml.
func SaveToYAML(datasetPath string, temperature float64, agg *metrics.AggregateResults) error {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    agg.Provider,
			Model:       agg.Model,
			Temperature: temperature,
			DatasetPath: datasetPath,
			SampleSize:  agg.SampleSize,
			Timestamp:   timestamp,
		},
		Summary: EvalSummary{
			TotalRecords:     agg.TotalRecords,
			SuccessCount:     agg.SuccessCount,
			FailureCount:     agg.FailureCount,
			Precision:        agg.Precision,
			Recall:           agg.Recall,
			F1:               agg.F1,
			ConfirmationRate: agg.ConfirmationRate,
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}

	for _, r := range agg.Results {
		if r.Error != "" {
			continue // Skip failed records
		}
		spec.Results = append(spec.Results, EvalResult{
			Identifier: r.Identifier,
			Title:      r.Title,
			Author:     r.Author,
			Expected:   r.Expected,
			Suggested:  r.Suggested,
			Score:      r.Score,
		})
	}

	model := agg.Model
	if model == "" {
		model = agg.Provider
	}
	filename := fmt.Sprintf("evals/%s-%s.yaml", model, timestamp)

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("\nEvaluation results saved to: %s\n", absPath)

	return nil
}
