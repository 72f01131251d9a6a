package crop

import (
	"math"
	"testing"
)

func testPrototypes() []Prototype {
	return []Prototype{
		{ID: "rice-0", Label: "Rice", Features: []float64{0, 0}},
		{ID: "rice-1", Label: "Rice", Features: []float64{0.1, 0}},
		{ID: "rice-2", Label: "Rice", Features: []float64{0, 0.1}},
		{ID: "maize-0", Label: "Maize", Features: []float64{5, 5}},
		{ID: "maize-1", Label: "Maize", Features: []float64{5.1, 5}},
		{ID: "cotton-0", Label: "Cotton", Features: []float64{-5, -5}},
	}
}

func TestNewClassifierRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := NewClassifier(nil, 3); err == nil {
		t.Error("expected error for empty prototype set")
	}
	if _, err := NewClassifier(testPrototypes(), 0); err == nil {
		t.Error("expected error for k=0")
	}

	mismatched := testPrototypes()
	mismatched[1].Features = []float64{1, 2, 3}
	if _, err := NewClassifier(mismatched, 3); err == nil {
		t.Error("expected error for inconsistent feature dimensions")
	}

	unlabelled := testPrototypes()
	unlabelled[0].Label = ""
	if _, err := NewClassifier(unlabelled, 3); err == nil {
		t.Error("expected error for missing label")
	}
}

func TestClassifierClampsNeighbourCount(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := classifier.PredictProbabilities([]float64{0, 0}); err != nil {
		t.Fatalf("prediction failed with clamped k: %v", err)
	}
}

func TestClassifierClassesSorted(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Cotton", "Maize", "Rice"}
	got := classifier.Classes()
	if len(got) != len(want) {
		t.Fatalf("classes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("classes = %v, want %v", got, want)
		}
	}
}

func TestPredictProbabilitiesNearestClassDominates(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	probs, err := classifier.PredictProbabilities([]float64{0.05, 0.05})
	if err != nil {
		t.Fatalf("prediction failed: %v", err)
	}

	if probs["Rice"] <= probs["Maize"] || probs["Rice"] <= probs["Cotton"] {
		t.Errorf("expected Rice to dominate, got %v", probs)
	}

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
}

func TestPredictProbabilitiesCoversAllClasses(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// k=3 and the query sits on top of the Rice cluster: Maize and Cotton
	// fall outside the neighbourhood but must still appear with zero.
	probs, err := classifier.PredictProbabilities([]float64{0, 0})
	if err != nil {
		t.Fatalf("prediction failed: %v", err)
	}

	for _, class := range classifier.Classes() {
		if _, ok := probs[class]; !ok {
			t.Errorf("class %s missing from distribution %v", class, probs)
		}
	}
	if probs["Cotton"] != 0 {
		t.Errorf("Cotton outside the neighbourhood should have probability 0, got %v", probs["Cotton"])
	}
}

func TestPredictProbabilitiesExactMatch(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero distance must not blow up the inverse-distance weighting.
	probs, err := classifier.PredictProbabilities([]float64{5, 5})
	if err != nil {
		t.Fatalf("prediction failed: %v", err)
	}
	if math.Abs(probs["Maize"]-1.0) > 1e-9 {
		t.Errorf("exact match probability = %v, want 1", probs["Maize"])
	}
}

func TestPredictProbabilitiesEmptyVector(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := classifier.PredictProbabilities(nil); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestClassifierStats(t *testing.T) {
	t.Parallel()

	classifier, err := NewClassifier(testPrototypes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := classifier.Stats()
	if stats.PrototypeCount != 6 {
		t.Errorf("PrototypeCount = %d, want 6", stats.PrototypeCount)
	}
	if stats.CropCount != 3 {
		t.Errorf("CropCount = %d, want 3", stats.CropCount)
	}

	counts := map[string]int{}
	for _, c := range stats.Crops {
		counts[c.Crop] = c.Prototypes
	}
	if counts["Rice"] != 3 || counts["Maize"] != 2 || counts["Cotton"] != 1 {
		t.Errorf("unexpected per-crop counts: %v", stats.Crops)
	}
}
