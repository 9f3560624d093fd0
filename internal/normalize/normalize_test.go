package normalize

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

func TestNormalizeText(t *testing.T) {
	desc, err := Normalize(models.BibliographicInput{Text: "  Pride and Prejudice, by Jane Austen.  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Text != "Pride and Prejudice, by Jane Austen." {
		t.Errorf("unexpected text: %q", desc.Text)
	}
	if len(desc.Payloads) != 0 {
		t.Errorf("expected no payloads, got %d", len(desc.Payloads))
	}
}

func TestNormalizeCombinesTextAndFiles(t *testing.T) {
	input := models.BibliographicInput{
		Text: "A novel of manners.",
		Files: []models.File{
			{Name: "abstract.txt", Data: []byte("Courtship in Regency England.")},
			{Name: "notes.md", Data: []byte("## Themes\nMarriage and class.")},
		},
	}

	desc, err := Normalize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A novel of manners.\n\n---\n\nCourtship in Regency England.\n\n## Themes\nMarriage and class."
	if !strings.Contains(desc.Text, "---") {
		t.Errorf("expected separator between fragments, got %q", desc.Text)
	}
	if desc.Text != want {
		t.Errorf("got %q, want %q", desc.Text, want)
	}
}

func TestNormalizeDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>A study of Meiji Japan.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Economic history, 1868-1912.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	desc, err := Normalize(models.BibliographicInput{
		Files: []models.File{{Name: "thesis.docx", Data: data}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(desc.Text, "A study of Meiji Japan.") {
		t.Errorf("missing first paragraph: %q", desc.Text)
	}
	if !strings.Contains(desc.Text, "Economic history, 1868-1912.") {
		t.Errorf("missing second paragraph: %q", desc.Text)
	}
}

func TestNormalizeImagePayload(t *testing.T) {
	desc, err := Normalize(models.BibliographicInput{
		Files: []models.File{{Name: "cover.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(desc.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(desc.Payloads))
	}
	if desc.Payloads[0].MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", desc.Payloads[0].MediaType)
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input models.BibliographicInput
		want  error
	}{
		{
			name:  "empty input",
			input: models.BibliographicInput{},
			want:  models.ErrEmptyInput,
		},
		{
			name:  "whitespace only",
			input: models.BibliographicInput{Text: "   \n\t "},
			want:  models.ErrEmptyInput,
		},
		{
			name: "unsupported format",
			input: models.BibliographicInput{
				Files: []models.File{{Name: "records.mrc", MediaType: "application/marc", Data: []byte("x")}},
			},
			want: models.ErrUnsupportedFormat,
		},
		{
			name: "file over size cap",
			input: models.BibliographicInput{
				Files: []models.File{{Name: "huge.txt", Data: make([]byte, MaxFileBytes+1)}},
			},
			want: models.ErrInputTooLarge,
		},
		{
			name: "combined text over cap is rejected not truncated",
			input: models.BibliographicInput{
				Text: strings.Repeat("a", MaxTextBytes+1),
			},
			want: models.ErrInputTooLarge,
		},
		{
			name: "corrupt docx",
			input: models.BibliographicInput{
				Files: []models.File{{Name: "broken.docx", Data: []byte("not a zip")}},
			},
			want: models.ErrExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectKindByMediaType(t *testing.T) {
	tests := []struct {
		name      string
		file      models.File
		want      kind
	}{
		{"plain text with charset", models.File{MediaType: "text/plain; charset=utf-8"}, kindText},
		{"markdown", models.File{MediaType: "text/markdown"}, kindText},
		{"docx", models.File{MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, kindDocx},
		{"pdf", models.File{MediaType: "application/pdf"}, kindPDF},
		{"jpeg", models.File{MediaType: "image/jpeg"}, kindImage},
		{"extension fallback", models.File{Name: "notes.TXT"}, kindText},
		{"unknown", models.File{Name: "data.bin", MediaType: "application/octet-stream"}, kindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectKind(tt.file); got != tt.want {
				t.Errorf("detectKind = %d, want %d", got, tt.want)
			}
		})
	}
}

// buildDocx assembles a minimal .docx container around the given
// word/document.xml content.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}
