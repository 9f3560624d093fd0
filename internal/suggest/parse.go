package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/prompt"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// parseCandidates validates the raw model output against the declared
// response schema and unmarshals it. Markdown code fences are tolerated
// since models add them despite instructions.
func parseCandidates(raw string) ([]models.SubjectHeadingCandidate, error) {
	cleaned := trimCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	if err := validateAgainstSchema(prompt.ResponseSchema, []byte(cleaned)); err != nil {
		return nil, err
	}

	var candidates []models.SubjectHeadingCandidate
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return candidates, nil
}

// validateAgainstSchema validates data against the given JSON schema.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}

func trimCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
