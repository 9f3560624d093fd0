package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/config"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval/dataset"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/eval/results"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPath  string
		sampleSize   int
		providerName string
		model        string
		saveYAML     bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate suggestion accuracy against cataloged records",
		Long: `Runs the pipeline over a dataset of cataloged items and scores the
suggested headings against the headings a professional cataloger
assigned, reporting precision, recall, and F1.

The dataset is a Parquet or JSONL file with identifier, title, author,
description, and headings columns.`,
		Example: `  # Evaluate 25 records from a Parquet dataset
  lcsh-assistant eval --dataset records.parquet --sample 25

  # Full JSONL run with a YAML report in evals/
  lcsh-assistant eval --dataset records.jsonl --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if providerName == "" {
				providerName = cfg.Provider
			}
			if model == "" {
				model = cfg.Model
			}

			loader := dataset.NewLoader(datasetPath)
			records, err := loader.LoadSample(sampleSize)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("dataset %s contains no records", datasetPath)
			}

			p, err := buildPipeline(cfg, providerName, model)
			if err != nil {
				return err
			}

			runner := eval.NewRunner(p, cfg.Credential(providerName), providerName, model)
			agg, err := runner.Run(cmd.Context(), records)
			if err != nil {
				return err
			}

			agg.PrintSummary()

			if saveYAML {
				return results.SaveToYAML(datasetPath, cfg.Temperature, agg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Path to .parquet or .jsonl dataset")
	cmd.Flags().IntVarP(&sampleSize, "sample", "s", 0, "Number of records to evaluate (0 = all)")
	cmd.Flags().StringVar(&providerName, "provider", "", "LLM provider: gemini, openai, or ollama")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name (provider default if empty)")
	cmd.Flags().BoolVar(&saveYAML, "save", false, "Write a YAML report to evals/")
	if err := cmd.MarkFlagRequired("dataset"); err != nil {
		panic(err)
	}

	return cmd
}
