package reconcile

import (
	"testing"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

func heading(label string, confidence models.Confidence, status models.Status) models.ValidatedHeading {
	return models.ValidatedHeading{
		Candidate: models.SubjectHeadingCandidate{
			Label:      label,
			Confidence: confidence,
		},
		Status: status,
	}
}

func TestReconcileOrdering(t *testing.T) {
	validated := []models.ValidatedHeading{
		heading("unresolved high", models.ConfidenceHigh, models.StatusUnresolved),
		heading("confirmed low", models.ConfidenceLow, models.StatusConfirmed),
		heading("failed high", models.ConfidenceHigh, models.StatusLookupFailed),
		heading("variant medium", models.ConfidenceMedium, models.StatusConfirmedVariant),
		heading("confirmed high", models.ConfidenceHigh, models.StatusConfirmed),
	}

	got := Reconcile(validated)

	wantOrder := []string{"confirmed high", "confirmed low", "variant medium", "unresolved high", "failed high"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d headings, got %d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].Candidate.Label != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Candidate.Label, want)
		}
		if got[i].DisplayRank != i+1 {
			t.Errorf("position %d: DisplayRank = %d, want %d", i, got[i].DisplayRank, i+1)
		}
	}
}

func TestReconcileStableWithinStatus(t *testing.T) {
	// Same status and confidence must keep model-output order.
	validated := []models.ValidatedHeading{
		heading("first", models.ConfidenceMedium, models.StatusUnresolved),
		heading("second", models.ConfidenceMedium, models.StatusUnresolved),
		heading("third", models.ConfidenceMedium, models.StatusUnresolved),
	}

	got := Reconcile(validated)
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Candidate.Label != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Candidate.Label, want)
		}
	}
}

func TestReconcileConfidenceAdjustment(t *testing.T) {
	tests := []struct {
		name   string
		status models.Status
		model  models.Confidence
		want   models.Confidence
	}{
		{"confirmed raises low", models.StatusConfirmed, models.ConfidenceLow, models.ConfidenceMedium},
		{"confirmed raises medium", models.StatusConfirmed, models.ConfidenceMedium, models.ConfidenceHigh},
		{"confirmed caps at high", models.StatusConfirmed, models.ConfidenceHigh, models.ConfidenceHigh},
		{"variant keeps confidence", models.StatusConfirmedVariant, models.ConfidenceLow, models.ConfidenceLow},
		{"unresolved keeps confidence", models.StatusUnresolved, models.ConfidenceHigh, models.ConfidenceHigh},
		{"lookup failure never raises", models.StatusLookupFailed, models.ConfidenceMedium, models.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile([]models.ValidatedHeading{heading("x", tt.model, tt.status)})
			if got[0].DisplayConfidence != tt.want {
				t.Errorf("DisplayConfidence = %s, want %s", got[0].DisplayConfidence, tt.want)
			}
		})
	}
}

func TestReconcileDropsNothing(t *testing.T) {
	validated := []models.ValidatedHeading{
		heading("a", models.ConfidenceLow, models.StatusLookupFailed),
		heading("b", models.ConfidenceLow, models.StatusUnresolved),
	}

	got := Reconcile(validated)
	if len(got) != len(validated) {
		t.Fatalf("expected all %d headings in output, got %d", len(validated), len(got))
	}
}
