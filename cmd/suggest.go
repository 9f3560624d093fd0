package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/config"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSuggestCmd() *cobra.Command {
	var (
		text         string
		providerName string
		model        string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "suggest [files...]",
		Short: "Suggest subject headings for a bibliographic description",
		Long: `Runs the suggestion pipeline once from the command line.

The description comes from --text, from the given files (txt, md, pdf,
docx, or images), or both. Every suggestion is checked against the
id.loc.gov authority registry before display.`,
		Example: `  # From text
  lcsh-assistant suggest --text "Pride and Prejudice, a novel of manners..."

  # From a PDF, as YAML
  lcsh-assistant suggest --format yaml dissertation.pdf`,
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

			input := models.BibliographicInput{Text: text}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				input.Files = append(input.Files, models.File{
					Name: filepath.Base(path),
					Data: data,
				})
			}

			p, err := buildPipeline(cfg, providerName, model)
			if err != nil {
				return err
			}

			result, err := p.Suggest(cmd.Context(), input, cfg.Credential(providerName))
			if err != nil {
				return err
			}

			return render(result, format)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Bibliographic description text")
	cmd.Flags().StringVar(&providerName, "provider", "", "LLM provider: gemini, openai, or ollama")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name (provider default if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, or yaml")

	return cmd
}

func render(result *models.SuggestionResult, format string) error {
	switch format {
	case "table":
		renderHeadingsTable(result)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(result)
	}
	return fmt.Errorf("unknown format: %q (supported: table, json, yaml)", format)
}

func renderHeadingsTable(result *models.SuggestionResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Heading", "Status", "Confidence", "Authority ID"})

	for _, h := range result.Headings {
		label := h.Candidate.Label
		if h.CanonicalLabel != "" && h.CanonicalLabel != h.Candidate.Label {
			label = fmt.Sprintf("%s (submitted: %s)", h.CanonicalLabel, h.Candidate.Label)
		}
		tw.AppendRow(table.Row{h.DisplayRank, label, string(h.Status), string(h.DisplayConfidence), h.AuthorityID})
	}
	tw.Render()

	fmt.Printf("\nProvider: %s  Model: %s  Generated: %s\n",
		result.Provider, result.Model, result.GeneratedAt.Format("2006-01-02 15:04:05"))
}
