package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/authority"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/providers"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/suggest"
)

type stubProvider struct {
	response string
	err      error
	calls    atomic.Int32
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, config providers.Config) (string, error) {
	s.calls.Add(1)
	return s.response, s.err
}

// registryServer serves suggest2 responses keyed by normalized query label.
func registryServer(responses map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		if body, ok := responses[q]; ok {
			fmt.Fprint(w, body)
			return
		}
		fmt.Fprint(w, `{"count": 0, "hits": []}`)
	}))
}

func newTestPipeline(provider providers.Provider, registryURL string) *Pipeline {
	generator := suggest.NewGenerator(provider, "test-model", suggest.WithBackoff(time.Millisecond))
	return New(generator, authority.NewClient(registryURL), "stub", 2)
}

func TestSuggestEndToEnd(t *testing.T) {
	provider := &stubProvider{response: `[
		{"label": "Marriage in literature", "rationale": "Courtship and marriage drive the plot.", "confidence": "medium"},
		{"label": "Regency vibes", "rationale": "Set in Regency England.", "confidence": "high"},
		{"label": "Dating (Social customs)", "rationale": "Courtship rituals.", "confidence": "low"}
	]`}

	server := registryServer(map[string]string{
		"marriage in literature": `{"count": 1, "hits": [
			{"uri": "http://id.loc.gov/authorities/subjects/sh85081593", "aLabel": "Marriage in literature"}
		]}`,
		"dating (social customs)": `{"count": 1, "hits": [
			{"uri": "http://id.loc.gov/authorities/subjects/sh85020803", "aLabel": "Courtship", "vLabel": "Dating (Social customs)"}
		]}`,
	})
	defer server.Close()

	p := newTestPipeline(provider, server.URL)
	input := models.BibliographicInput{Text: "Pride and Prejudice, a novel of manners by Jane Austen."}

	result, err := p.Suggest(context.Background(), input, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(result.Headings))
	}
	if result.Provider != "stub" || result.Model != "test-model" {
		t.Errorf("result metadata: %+v", result)
	}

	// Confirmed first, then variant, then unresolved, regardless of the
	// model's own confidence.
	first := result.Headings[0]
	if first.Candidate.Label != "Marriage in literature" || first.Status != models.StatusConfirmed {
		t.Errorf("first heading: %+v", first)
	}
	if first.DisplayConfidence != models.ConfidenceHigh {
		t.Errorf("confirmation should raise medium to high, got %s", first.DisplayConfidence)
	}

	second := result.Headings[1]
	if second.Status != models.StatusConfirmedVariant || second.CanonicalLabel != "Courtship" {
		t.Errorf("second heading: %+v", second)
	}

	third := result.Headings[2]
	if third.Candidate.Label != "Regency vibes" || third.Status != models.StatusUnresolved {
		t.Errorf("third heading: %+v", third)
	}

	for i, h := range result.Headings {
		if h.DisplayRank != i+1 {
			t.Errorf("heading %d: DisplayRank = %d", i, h.DisplayRank)
		}
	}
}

func TestSuggestRegistryOutageDoesNotAbort(t *testing.T) {
	provider := &stubProvider{response: `[
		{"label": "Courtship", "rationale": "r", "confidence": "high"},
		{"label": "Marriage", "rationale": "r", "confidence": "medium"}
	]`}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := newTestPipeline(provider, server.URL)
	result, err := p.Suggest(context.Background(), models.BibliographicInput{Text: "desc"}, "key")
	if err != nil {
		t.Fatalf("registry failure must not abort the request: %v", err)
	}

	if len(result.Headings) != 2 {
		t.Fatalf("expected both headings present, got %d", len(result.Headings))
	}
	for _, h := range result.Headings {
		if h.Status != models.StatusLookupFailed {
			t.Errorf("heading %q: Status = %s, want lookup-failed", h.Candidate.Label, h.Status)
		}
		if h.DisplayConfidence != h.Candidate.Confidence {
			t.Errorf("lookup failure must not change confidence")
		}
	}
}

func TestSuggestRejectsOversizedInputBeforeModelCall(t *testing.T) {
	provider := &stubProvider{response: "[]"}
	p := newTestPipeline(provider, "http://127.0.0.1:1")

	input := models.BibliographicInput{Text: strings.Repeat("a", 101*1024)}
	_, err := p.Suggest(context.Background(), input, "key")

	if !errors.Is(err, models.ErrInputTooLarge) {
		t.Fatalf("got %v, want ErrInputTooLarge", err)
	}
	if provider.calls.Load() != 0 {
		t.Error("oversized input must be rejected before the provider is called")
	}
}

func TestSuggestEmptyInput(t *testing.T) {
	provider := &stubProvider{response: "[]"}
	p := newTestPipeline(provider, "http://127.0.0.1:1")

	_, err := p.Suggest(context.Background(), models.BibliographicInput{}, "key")
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
	if provider.calls.Load() != 0 {
		t.Error("empty input must be rejected before the provider is called")
	}
}

func TestSuggestPropagatesGenerationFailure(t *testing.T) {
	provider := &stubProvider{err: &providers.Error{
		Failure: providers.FailureInvalidCredential,
		Err:     errors.New("401"),
	}}
	p := newTestPipeline(provider, "http://127.0.0.1:1")

	_, err := p.Suggest(context.Background(), models.BibliographicInput{Text: "desc"}, "bad-key")
	if !errors.Is(err, models.ErrInvalidCredential) {
		t.Fatalf("got %v, want ErrInvalidCredential", err)
	}
}

func TestSuggestIdempotentForSameInput(t *testing.T) {
	provider := &stubProvider{response: `[
		{"label": "Courtship", "rationale": "r", "confidence": "high"}
	]`}
	server := registryServer(map[string]string{
		"courtship": `{"count": 1, "hits": [{"uri": "http://id.loc.gov/authorities/subjects/sh85020803", "aLabel": "Courtship"}]}`,
	})
	defer server.Close()

	p := newTestPipeline(provider, server.URL)
	input := models.BibliographicInput{Text: "desc"}

	first, err := p.Suggest(context.Background(), input, "key")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Suggest(context.Background(), input, "key")
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Headings) != len(second.Headings) {
		t.Fatal("same input must produce the same headings")
	}
	for i := range first.Headings {
		a, b := first.Headings[i], second.Headings[i]
		if a.Candidate.Label != b.Candidate.Label || a.Status != b.Status || a.DisplayRank != b.DisplayRank {
			t.Errorf("heading %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}
