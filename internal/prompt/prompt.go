// Package prompt composes the model request for LCSH suggestion: the fixed
// agent instructions, the normalized bibliographic text, and any attached
// payloads.
package prompt

import (
	"strings"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

// Instructions is the system prompt for the suggestion task. The OUTPUT
// FORMAT section must stay in sync with ResponseSchema.
const Instructions = `You are an LCSH recommendation agent for cataloging librarians.

Your task is to analyze bibliographic information describing one item and suggest appropriate Library of Congress Subject Headings (LCSH).

INSTRUCTIONS:
1. Carefully analyze ALL the bibliographic information provided, including any attached title page, cover, or document images.
2. Identify the subjects, genres, time periods, places, and named persons the item is about.
3. Suggest 3 to 15 LCSH terms, most relevant first. Use proper LCSH formatting, including -- subdivisions where appropriate (e.g. "Marriage in literature", "Japan--History--Meiji period, 1868-1912").
4. For each term, give a one-sentence rationale tied to the provided description.
5. Rate your confidence in each term as "high", "medium", or "low". Only use "high" for terms you are certain are established LCSH headings that squarely fit the item.
6. Do not attempt to validate the terms against any external service; validation is handled separately.

OUTPUT FORMAT:
Respond with ONLY a JSON array in the following format, with no markdown fences and no commentary:

[
  {"label": "Marriage in literature", "rationale": "The novel centers on courtship and marriage.", "confidence": "high"},
  {"label": "Social classes in literature", "rationale": "Class distinctions drive the plot.", "confidence": "medium"}
]`

// Request is the composed model request payload.
type Request struct {
	Instructions string
	Text         string
	Payloads     []models.Payload
}

// Compose builds the model request from a normalized description. It is a
// pure function; the only failure mode is a description with nothing
// usable in it.
func Compose(desc models.NormalizedDescription) (Request, error) {
	text := strings.TrimSpace(desc.Text)
	if text == "" && len(desc.Payloads) == 0 {
		return Request{}, models.ErrEmptyInput
	}

	var sb strings.Builder
	if text != "" {
		sb.WriteString("Analyze the following bibliographic information and suggest appropriate Library of Congress Subject Headings:\n\n")
		sb.WriteString(text)
	} else {
		sb.WriteString("Analyze the attached item and suggest appropriate Library of Congress Subject Headings.")
	}
	if len(desc.Payloads) > 0 && text != "" {
		sb.WriteString("\n\nAdditional page or cover images of the item are attached.")
	}

	return Request{
		Instructions: Instructions,
		Text:         sb.String(),
		Payloads:     desc.Payloads,
	}, nil
}
