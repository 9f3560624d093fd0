// Package reconcile merges generator and validator output into the final
// ranked suggestion list.
package reconcile

import (
	"sort"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

// Reconcile orders the validated headings and assigns display rank and
// adjusted confidence. Every input heading appears exactly once in the
// output; unresolved and unverifiable candidates are surfaced with their
// status, never hidden.
//
// Ordering: confirmed, then confirmed-variant, then unresolved, then
// lookup-failed; within a status, descending model confidence; ties keep
// the original model-output order.
func Reconcile(validated []models.ValidatedHeading) []models.SuggestedHeading {
	entries := make([]models.SuggestedHeading, len(validated))
	for i, v := range validated {
		entries[i] = models.SuggestedHeading{
			ValidatedHeading:  v,
			DisplayConfidence: displayConfidence(v),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].Status.Rank(), entries[j].Status.Rank()
		if si != sj {
			return si < sj
		}
		return entries[i].Candidate.Confidence.Rank() > entries[j].Candidate.Confidence.Rank()
	})

	for i := range entries {
		entries[i].DisplayRank = i + 1
	}
	return entries
}

// displayConfidence applies the adjustment policy: registry confirmation
// raises the model's confidence one level, capped at high. A failed lookup
// never raises confidence since the validation evidence is missing.
func displayConfidence(v models.ValidatedHeading) models.Confidence {
	switch v.Status {
	case models.StatusConfirmed:
		return v.Candidate.Confidence.Raise()
	case models.StatusConfirmedVariant, models.StatusUnresolved, models.StatusLookupFailed:
		return v.Candidate.Confidence
	}
	return v.Candidate.Confidence
}
