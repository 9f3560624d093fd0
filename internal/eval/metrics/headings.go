// Package metrics scores suggested subject headings against the headings
// a cataloger assigned.
package metrics

import (
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

// Score is the precision/recall/F1 triple for one record.
type Score struct {
	Precision float64 `yaml:"precision" json:"precision"`
	Recall    float64 `yaml:"recall"    json:"recall"`
	F1        float64 `yaml:"f1"        json:"f1"`
	Matched   int     `yaml:"matched"   json:"matched"`
}

// Compare scores suggested headings against the expected set. Labels are
// compared case- and whitespace-insensitively; a suggestion counts as a
// match when it equals any expected heading.
func Compare(expected, suggested []string) Score {
	want := make(map[string]bool, len(expected))
	for _, h := range expected {
		want[models.NormalizeLabel(h)] = true
	}

	matched := 0
	seen := make(map[string]bool, len(suggested))
	for _, h := range suggested {
		key := models.NormalizeLabel(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		if want[key] {
			matched++
		}
	}

	score := Score{Matched: matched}
	if len(seen) > 0 {
		score.Precision = float64(matched) / float64(len(seen))
	}
	if len(want) > 0 {
		score.Recall = float64(matched) / float64(len(want))
	}
	if score.Precision+score.Recall > 0 {
		score.F1 = 2 * score.Precision * score.Recall / (score.Precision + score.Recall)
	}
	return score
}
