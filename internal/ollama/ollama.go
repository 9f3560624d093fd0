package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
)

const defaultModel = "mistral-small3.2:24b"

// Ollama is a provider for a local Ollama instance. It needs no API key,
// which makes it useful for running the pipeline without a cloud
// credential.
type Ollama struct {
	httpClient *http.Client
}

// New returns a new Ollama provider.
func New() *Ollama {
	return &Ollama{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (o *Ollama) Name() string {
	return "ollama"
}

// Generate sends the composed request to the Ollama generate API and
// returns the raw response text. Image payloads ride along base64-encoded;
// document payloads are rejected.
func (o *Ollama) Generate(ctx context.Context, config providers.Config) (string, error) {
	modelName := config.Model
	if modelName == "" {
		modelName = defaultModel
	}

	var images []string
	for _, p := range config.Payloads {
		if !strings.HasPrefix(p.MediaType, "image/") {
			return "", fmt.Errorf("ollama provider cannot accept %s payloads", p.MediaType)
		}
		images = append(images, base64.StdEncoding.EncodeToString(p.Data))
	}

	requestBody := map[string]interface{}{
		"model":  modelName,
		"prompt": config.Instructions + "\n\n" + config.Prompt,
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	}
	if len(images) > 0 {
		requestBody["images"] = images
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host()+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	return ollamaResp.Response, nil
}

func host() string {
	if h := os.Getenv("OLLAMA_URL"); h != "" {
		return h
	}
	if h := os.Getenv("OLLAMA_HOST"); h != "" {
		return h
	}
	return "http://localhost:11434"
}
