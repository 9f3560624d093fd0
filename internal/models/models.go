package models

import (
	"strings"
	"time"
)

// Confidence is the model-assigned confidence for a candidate heading.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence levels: low = 0, medium = 1, high = 2.
// Unknown values rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 0
	}
	return -1
}

// Raise returns the next confidence level up, capped at high.
func (c Confidence) Raise() Confidence {
	switch c {
	case ConfidenceLow:
		return ConfidenceMedium
	case ConfidenceMedium, ConfidenceHigh:
		return ConfidenceHigh
	}
	return c
}

// Status is the validation outcome for one candidate heading.
// The set is closed; ranking and confidence adjustment switch over it
// exhaustively.
type Status string

const (
	// StatusConfirmed means the candidate matched a preferred label in the
	// authority registry.
	StatusConfirmed Status = "confirmed"
	// StatusConfirmedVariant means the candidate matched a "used for"
	// cross-reference; the canonical label differs from the submitted text.
	StatusConfirmedVariant Status = "confirmed-variant"
	// StatusUnresolved means the registry answered but holds no record for
	// the candidate.
	StatusUnresolved Status = "unresolved"
	// StatusLookupFailed means the registry could not be reached, so the
	// candidate could not be checked at all.
	StatusLookupFailed Status = "lookup-failed"
)

// Rank orders statuses from best (0) to worst for display sorting.
func (s Status) Rank() int {
	switch s {
	case StatusConfirmed:
		return 0
	case StatusConfirmedVariant:
		return 1
	case StatusUnresolved:
		return 2
	case StatusLookupFailed:
		return 3
	}
	return 4
}

// File is one uploaded document or image with its declared media type.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// BibliographicInput describes one item to suggest headings for.
// At least one non-empty source (text or file) must be present.
type BibliographicInput struct {
	Text  string
	Files []File
}

// Payload is binary content attached to the model request for direct
// multimodal submission (images, or a PDF with scanned pages).
type Payload struct {
	MediaType string
	Data      []byte
}

// NormalizedDescription is the single bibliographic-description payload
// produced by the normalizer. It is owned by one pipeline invocation and
// discarded when the call completes.
type NormalizedDescription struct {
	Text     string
	Payloads []Payload
}

// SubjectHeadingCandidate is one heading proposed by the language model,
// before authority verification. Immutable once created.
type SubjectHeadingCandidate struct {
	Label      string     `json:"label"`
	Rationale  string     `json:"rationale"`
	Confidence Confidence `json:"confidence"`
}

// ValidatedHeading is the registry verdict for one candidate.
type ValidatedHeading struct {
	Candidate      SubjectHeadingCandidate `json:"candidate"`
	Status         Status                  `json:"status"`
	CanonicalLabel string                  `json:"canonical_label,omitempty"`
	AuthorityID    string                  `json:"authority_id,omitempty"`
	RelatedTerms   []string                `json:"related_terms,omitempty"`
}

// SuggestedHeading is one entry of the final result, with the rank and
// adjusted confidence assigned by the reconciler.
type SuggestedHeading struct {
	ValidatedHeading
	DisplayRank       int        `json:"display_rank"`
	DisplayConfidence Confidence `json:"display_confidence"`
}

// SuggestionResult is the sole output of the pipeline. It is handed to the
// caller for rendering and never persisted.
type SuggestionResult struct {
	Headings    []SuggestedHeading `json:"headings"`
	Provider    string             `json:"provider,omitempty"`
	Model       string             `json:"model,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Session represents one client session. The API key lives only in process
// memory for the session's lifetime and is never serialized or logged.
type Session struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	APIKey    string    `json:"-"`
}

// NormalizeLabel reduces a heading label to its case- and
// whitespace-insensitive comparison form.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
