package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultModel = "gpt-4o"

// OpenAI is a provider for the OpenAI chat completions API.
type OpenAI struct{}

// New returns a new OpenAI provider.
func New() *OpenAI {
	return &OpenAI{}
}

func (o *OpenAI) Name() string {
	return "openai"
}

// Generate sends the composed request to OpenAI and returns the raw
// response text. Only image payloads are supported; a request carrying a
// document payload (e.g. a scanned PDF) must go to a provider that accepts
// documents.
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	if config.APIKey == "" {
		return "", &providers.Error{
			Failure: providers.FailureInvalidCredential,
			Err:     errors.New("no API key supplied"),
		}
	}

	modelName := config.Model
	if modelName == "" {
		modelName = defaultModel
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(config.Prompt),
	}
	for _, p := range config.Payloads {
		if !strings.HasPrefix(p.MediaType, "image/") {
			return "", fmt.Errorf("openai provider cannot accept %s payloads", p.MediaType)
		}
		dataURL := "data:" + p.MediaType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	client := openai.NewClient(option.WithAPIKey(config.APIKey))
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.Instructions),
			openai.UserMessage(parts),
		},
		Temperature: openai.Float(config.Temperature),
	})
	if err != nil {
		return "", classify(err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return completion.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &providers.Error{Failure: providers.FailureInvalidCredential, Err: err}
		case http.StatusTooManyRequests:
			// OpenAI reports both rate limiting and exhausted quota as 429;
			// only the former is worth retrying.
			if strings.Contains(strings.ToLower(apierr.Error()), "quota") {
				return &providers.Error{Failure: providers.FailureQuota, Err: err}
			}
			return &providers.Error{Failure: providers.FailureTransient, Err: err}
		case http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apierr.Error()), "content policy") {
				return &providers.Error{Failure: providers.FailureContentPolicy, Err: err}
			}
		}
	}
	return err
}
