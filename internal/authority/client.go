// Package authority resolves candidate headings against the Library of
// Congress subject authority file via the id.loc.gov suggest2 service.
package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

const (
	// DefaultBaseURL is the public Library of Congress linked data service.
	DefaultBaseURL = "https://id.loc.gov"

	suggestCount = 10
	maxAttempts  = 3
	retryDelay   = 250 * time.Millisecond
)

// Client queries the subject heading registry. It is a read-only lookup
// dependency with its own retry policy, independent of the model service.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a registry client. An empty baseURL selects the public
// id.loc.gov service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// hit is one match from the suggest2 service. aLabel carries the
// authorized form; vLabel is set when the query matched a variant
// ("used for") reference.
type hit struct {
	URI          string `json:"uri"`
	ALabel       string `json:"aLabel"`
	VLabel       string `json:"vLabel"`
	SuggestLabel string `json:"suggestLabel"`
}

// Lookup resolves one candidate to a ValidatedHeading. Registry failures
// after the bounded retry yield lookup-failed rather than an error, so one
// registry hiccup never aborts the rest of the request.
func (c *Client) Lookup(ctx context.Context, candidate models.SubjectHeadingCandidate) models.ValidatedHeading {
	validated := models.ValidatedHeading{Candidate: candidate}

	hits, err := c.suggest(ctx, candidate.Label)
	if err != nil {
		slog.Warn("Authority lookup failed", "label", candidate.Label, "err", err)
		validated.Status = models.StatusLookupFailed
		return validated
	}

	norm := models.NormalizeLabel(candidate.Label)
	matched := -1

	for i, h := range hits {
		if models.NormalizeLabel(h.ALabel) == norm {
			validated.Status = models.StatusConfirmed
			validated.CanonicalLabel = h.ALabel
			validated.AuthorityID = authorityID(h.URI)
			matched = i
			break
		}
	}

	if matched < 0 {
		for i, h := range hits {
			// A vLabel (or a suggest label differing from the authorized
			// form) means the registry knows the candidate as a
			// cross-reference; the canonical form is the aLabel.
			variant := models.NormalizeLabel(h.VLabel) == norm ||
				(h.SuggestLabel != "" && models.NormalizeLabel(h.SuggestLabel) == norm &&
					models.NormalizeLabel(h.ALabel) != norm)
			if variant && h.ALabel != "" {
				validated.Status = models.StatusConfirmedVariant
				validated.CanonicalLabel = h.ALabel
				validated.AuthorityID = authorityID(h.URI)
				matched = i
				break
			}
		}
	}

	if matched < 0 {
		validated.Status = models.StatusUnresolved
		return validated
	}

	validated.RelatedTerms = relatedTerms(hits, matched)
	return validated
}

// suggest queries the registry with bounded retry on transport and server
// errors.
func (c *Client) suggest(ctx context.Context, label string) ([]hit, error) {
	suggestURL := fmt.Sprintf("%s/authorities/subjects/suggest2?q=%s&count=%d",
		c.BaseURL, url.QueryEscape(label), suggestCount)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		hits, retryable, err := c.fetch(ctx, suggestURL)
		if err == nil {
			return hits, nil
		}
		lastErr = err
		if !retryable || attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, suggestURL string) (hits []hit, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, suggestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to reach registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var suggestResp struct {
		Count int   `json:"count"`
		Hits  []hit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&suggestResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode registry response: %w", err)
	}
	return suggestResp.Hits, false, nil
}

// relatedTerms collects the authorized labels of the other hits returned
// for the query, deduplicated against the match itself.
func relatedTerms(hits []hit, matched int) []string {
	matchedLabel := models.NormalizeLabel(hits[matched].ALabel)
	seen := map[string]bool{matchedLabel: true}

	var related []string
	for i, h := range hits {
		if i == matched || h.ALabel == "" {
			continue
		}
		key := models.NormalizeLabel(h.ALabel)
		if seen[key] {
			continue
		}
		seen[key] = true
		related = append(related, h.ALabel)
	}
	return related
}

// authorityID extracts the record identifier from a hit URI, e.g.
// "http://id.loc.gov/authorities/subjects/sh85082213" -> "sh85082213".
func authorityID(uri string) string {
	if uri == "" {
		return ""
	}
	return path.Base(uri)
}
