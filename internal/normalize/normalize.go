// Package normalize converts heterogeneous bibliographic input (free text,
// plain-text and markdown files, Word documents, PDFs, images) into a
// single description payload for the model call.
package normalize

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

const (
	// MaxFileBytes caps a single uploaded file.
	MaxFileBytes = 10 * 1024 * 1024
	// MaxTextBytes caps the combined extracted text, bounding model-call
	// cost. Inputs past the cap are rejected, never truncated.
	MaxTextBytes = 100 * 1024

	separator = "\n\n---\n\n"
)

type kind int

const (
	kindUnknown kind = iota
	kindText
	kindDocx
	kindPDF
	kindImage
)

// Normalize converts a BibliographicInput into a NormalizedDescription.
// Text fragments are concatenated in input order; images and scanned PDFs
// become payloads for direct multimodal submission.
func Normalize(input models.BibliographicInput) (models.NormalizedDescription, error) {
	var desc models.NormalizedDescription
	var parts []string

	if t := strings.TrimSpace(input.Text); t != "" {
		parts = append(parts, t)
	}

	for _, f := range input.Files {
		if len(f.Data) == 0 {
			continue
		}
		if len(f.Data) > MaxFileBytes {
			return desc, fmt.Errorf("%w: %s is %d bytes (max %d)", models.ErrInputTooLarge, f.Name, len(f.Data), MaxFileBytes)
		}

		switch detectKind(f) {
		case kindText:
			if t := strings.TrimSpace(string(f.Data)); t != "" {
				parts = append(parts, t)
			}
		case kindDocx:
			text, err := extractDocx(f.Data)
			if err != nil {
				return desc, fmt.Errorf("%w: %s: %v", models.ErrExtractionFailed, f.Name, err)
			}
			if t := strings.TrimSpace(text); t != "" {
				parts = append(parts, t)
			}
		case kindPDF:
			text, scanned, err := extractPDF(f.Data)
			if err != nil {
				return desc, fmt.Errorf("%w: %s: %v", models.ErrExtractionFailed, f.Name, err)
			}
			if t := strings.TrimSpace(text); t != "" {
				parts = append(parts, t)
			}
			// Pages with no extractable text are almost always scans.
			// Attach the document itself so the multimodal model can read
			// them; no local OCR is attempted.
			if scanned {
				desc.Payloads = append(desc.Payloads, models.Payload{MediaType: "application/pdf", Data: f.Data})
			}
		case kindImage:
			desc.Payloads = append(desc.Payloads, models.Payload{MediaType: imageMediaType(f), Data: f.Data})
		default:
			return desc, fmt.Errorf("%w: %s (%s)", models.ErrUnsupportedFormat, f.Name, f.MediaType)
		}
	}

	desc.Text = strings.Join(parts, separator)
	if len(desc.Text) > MaxTextBytes {
		return models.NormalizedDescription{}, fmt.Errorf("%w: extracted text is %d bytes (max %d)", models.ErrInputTooLarge, len(desc.Text), MaxTextBytes)
	}
	if desc.Text == "" && len(desc.Payloads) == 0 {
		return models.NormalizedDescription{}, models.ErrEmptyInput
	}

	return desc, nil
}

// detectKind dispatches on the declared media type, falling back to the
// file extension when the type is missing or generic.
func detectKind(f models.File) kind {
	mediaType := strings.ToLower(strings.TrimSpace(f.MediaType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	switch {
	case mediaType == "text/plain", mediaType == "text/markdown":
		return kindText
	case mediaType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return kindDocx
	case mediaType == "application/pdf":
		return kindPDF
	case strings.HasPrefix(mediaType, "image/"):
		return kindImage
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".txt", ".md":
		return kindText
	case ".docx":
		return kindDocx
	case ".pdf":
		return kindPDF
	case ".jpg", ".jpeg":
		return kindImage
	case ".png":
		return kindImage
	case ".gif":
		return kindImage
	case ".webp":
		return kindImage
	}

	return kindUnknown
}

func imageMediaType(f models.File) string {
	mediaType := strings.ToLower(strings.TrimSpace(f.MediaType))
	if strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
