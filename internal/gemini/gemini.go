package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

// Gemini is a provider for Google Gemini.
type Gemini struct{}

// New returns a new Gemini provider.
func New() *Gemini {
	return &Gemini{}
}

func (g *Gemini) Name() string {
	return "gemini"
}

// Generate sends the composed request to Gemini and returns the raw
// response text.
func (g *Gemini) Generate(ctx context.Context, config providers.Config) (string, error) {
	if config.APIKey == "" {
		return "", &providers.Error{
			Failure: providers.FailureInvalidCredential,
			Err:     errors.New("no API key supplied"),
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	modelName := config.Model
	if modelName == "" {
		modelName = defaultModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(config.Temperature))
	model.ResponseMIMEType = "application/json"
	if config.Instructions != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(config.Instructions)},
		}
	}

	parts := []genai.Part{genai.Text(config.Prompt)}
	for _, p := range config.Payloads {
		parts = append(parts, genai.Blob{MIMEType: p.MediaType, Data: p.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// classify maps Gemini errors to provider failure classes so the caller
// knows whether retrying can help.
func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &providers.Error{Failure: providers.FailureContentPolicy, Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &providers.Error{Failure: providers.FailureInvalidCredential, Err: err}
		case http.StatusTooManyRequests:
			return &providers.Error{Failure: providers.FailureTransient, Err: err}
		case http.StatusPaymentRequired:
			return &providers.Error{Failure: providers.FailureQuota, Err: err}
		}
	}

	return err
}
