package models

import "errors"

// Sentinel errors for pipeline outcomes. Callers distinguish error kinds
// with errors.Is; per-candidate lookup failures are not errors but a
// ValidatedHeading status.
var (
	// Input-stage errors. Fatal to the request; the caller must change the
	// input.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrExtractionFailed  = errors.New("text extraction failed")
	ErrEmptyInput        = errors.New("empty input")
	ErrInputTooLarge     = errors.New("input exceeds size limit")

	// Permanent model-service errors. Surfaced immediately, no retry.
	ErrInvalidCredential = errors.New("invalid API credential")
	ErrQuotaExceeded     = errors.New("API quota exceeded")
	ErrContentPolicy     = errors.New("request rejected by content policy")

	// ErrGenerationFailed is surfaced after transient model-service errors
	// exhaust the retry ceiling.
	ErrGenerationFailed = errors.New("suggestion generation failed")
	// ErrGenerationTimeout means the model call exceeded its overall time
	// budget.
	ErrGenerationTimeout = errors.New("suggestion generation timed out")
	// ErrMalformedResponse means the model never produced output matching
	// the declared schema.
	ErrMalformedResponse = errors.New("malformed model response")
)
