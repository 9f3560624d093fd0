package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/authority"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/config"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/gemini"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/ollama"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/openai"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/pipeline"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/suggest"
)

func newProvider(name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	}
	return nil, fmt.Errorf("unknown provider: %q (supported: gemini, openai, ollama)", name)
}

// buildPipeline assembles a pipeline for one provider and model. An empty
// model lets the provider pick its default.
func buildPipeline(cfg config.Config, providerName, model string) (*pipeline.Pipeline, error) {
	provider, err := newProvider(providerName)
	if err != nil {
		return nil, err
	}

	generator := suggest.NewGenerator(provider, model,
		suggest.WithTemperature(cfg.Temperature),
		suggest.WithTimeout(cfg.GenerationTimeout),
	)
	registry := authority.NewClient(cfg.AuthorityBaseURL)

	return pipeline.New(generator, registry, providerName, cfg.LookupConcurrency), nil
}
