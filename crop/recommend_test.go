package crop

import (
	"testing"
)

func TestTopRecommendationsRanking(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{
		"Rice":   0.55,
		"Maize":  0.25,
		"Cotton": 0.15,
		"Jute":   0.05,
	}
	classes := []string{"Cotton", "Jute", "Maize", "Rice"}

	recs := TopRecommendations(probs, classes, 0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].Crop != "Rice" || recs[1].Crop != "Maize" || recs[2].Crop != "Cotton" {
		t.Errorf("unexpected ranking: %v", recs)
	}
	if recs[0].Confidence != "55%" {
		t.Errorf("confidence = %q, want 55%%", recs[0].Confidence)
	}
}

func TestTopRecommendationsAppliesPenalty(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{"Rice": 0.80, "Maize": 0.20}
	classes := []string{"Maize", "Rice"}

	recs := TopRecommendations(probs, classes, 0.30)
	if recs[0].Confidence != "50%" {
		t.Errorf("penalized confidence = %q, want 50%%", recs[0].Confidence)
	}

	// The penalty changes the numbers but never the order.
	if recs[0].Crop != "Rice" {
		t.Errorf("penalty must not reorder, got %v", recs)
	}
}

func TestTopRecommendationsConfidenceFloor(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{"Rice": 0.60, "Maize": 0.30, "Cotton": 0.10}
	classes := []string{"Cotton", "Maize", "Rice"}

	recs := TopRecommendations(probs, classes, 0.50)
	// 0.10 - 0.50 would be negative: floor keeps it at 1%.
	if recs[2].Confidence != "1%" {
		t.Errorf("floored confidence = %q, want 1%%", recs[2].Confidence)
	}
}

func TestTopRecommendationsTieBreakIsStable(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{"Rice": 0.25, "Maize": 0.25, "Cotton": 0.25, "Jute": 0.25}
	classes := []string{"Cotton", "Jute", "Maize", "Rice"}

	recs := TopRecommendations(probs, classes, 0)
	if recs[0].Crop != "Cotton" || recs[1].Crop != "Jute" || recs[2].Crop != "Maize" {
		t.Errorf("ties must keep class order, got %v", recs)
	}
}

func TestTopRecommendationsFewerClassesThanLimit(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{"Rice": 0.7, "Maize": 0.3}
	classes := []string{"Maize", "Rice"}

	recs := TopRecommendations(probs, classes, 0)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
}

func TestTopRecommendationsDoesNotMutateClasses(t *testing.T) {
	t.Parallel()

	probs := map[string]float64{"Rice": 0.7, "Maize": 0.2, "Cotton": 0.1}
	classes := []string{"Cotton", "Maize", "Rice"}

	TopRecommendations(probs, classes, 0)
	if classes[0] != "Cotton" || classes[1] != "Maize" || classes[2] != "Rice" {
		t.Errorf("classes slice was mutated: %v", classes)
	}
}
