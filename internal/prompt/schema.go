package prompt

// ResponseSchema is the JSON Schema the model's response must satisfy: an
// ordered list of candidate headings with label, rationale, and
// confidence.
var ResponseSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []any{"label", "rationale", "confidence"},
		"properties": map[string]any{
			"label": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"rationale": map[string]any{
				"type": "string",
			},
			"confidence": map[string]any{
				"type": "string",
				"enum": []any{"high", "medium", "low"},
			},
		},
	},
}
