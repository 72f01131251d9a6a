package crop

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"N":           90.0,
		"P":           42.0,
		"K":           43.0,
		"ph":          6.5,
		"moisture":    40.0,
		"temperature": 25.0,
		"humidity":    80.0,
	}
}

func TestValidateReadingAcceptsValidPayload(t *testing.T) {
	t.Parallel()

	if errs := ValidateReading(validPayload()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateReadingNilPayload(t *testing.T) {
	t.Parallel()

	errs := ValidateReading(nil)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0] != "Request body is empty or not valid JSON." {
		t.Errorf("unexpected error message: %q", errs[0])
	}
}

func TestValidateReadingMissingField(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	delete(payload, "K")

	errs := ValidateReading(payload)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0] != "Missing required field: 'K'." {
		t.Errorf("unexpected error message: %q", errs[0])
	}
}

func TestValidateReadingCollectsAllProblems(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	delete(payload, "N")
	payload["ph"] = "acidic"

	errs := ValidateReading(payload)
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	if errs[0] != "Missing required field: 'N'." {
		t.Errorf("unexpected first error: %q", errs[0])
	}
	if errs[1] != "Field 'ph' must be a number, got: 'acidic'." {
		t.Errorf("unexpected second error: %q", errs[1])
	}
}

func TestValidateReadingNullCountsAsMissing(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	payload["humidity"] = nil

	errs := ValidateReading(payload)
	if len(errs) != 1 || errs[0] != "Missing required field: 'humidity'." {
		t.Fatalf("expected missing humidity error, got %v", errs)
	}
}

func TestNumericValueLegacyCoercions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float", 6.5, 6.5, true},
		{"int", 42, 42, true},
		{"json number", json.Number("43.5"), 43.5, true},
		{"numeric string", "12.25", 12.25, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"word string", "acidic", 0, false},
		{"slice", []any{1.0}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tc := range cases {
		got, ok := NumericValue(tc.value)
		if ok != tc.ok {
			t.Errorf("%s: ok=%v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCheckRealisticRangesFlagsHighTemperature(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	payload["temperature"] = 120.0
	payload["rainfall"] = 200.0

	warnings, penalty := CheckRealisticRanges(payload)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if warnings[0] != "Input Temperature (120) is above the expected maximum (60)." {
		t.Errorf("unexpected warning: %q", warnings[0])
	}
	if math.Abs(penalty-PenaltyPerWarning) > 1e-12 {
		t.Errorf("penalty = %v, want %v", penalty, PenaltyPerWarning)
	}
}

func TestCheckRealisticRangesFlagsLowValues(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	payload["N"] = -5.0

	warnings, _ := CheckRealisticRanges(payload)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "Nitrogen (N)") || !strings.Contains(warnings[0], "below the expected minimum") {
		t.Errorf("unexpected warning: %q", warnings[0])
	}
}

func TestCheckRealisticRangesPenaltyCapped(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"N":           -5.0,
		"P":           300.0,
		"K":           400.0,
		"temperature": 120.0,
		"humidity":    150.0,
		"ph":          20.0,
		"rainfall":    900.0,
	}

	warnings, penalty := CheckRealisticRanges(payload)
	if len(warnings) != 7 {
		t.Fatalf("expected seven warnings, got %d: %v", len(warnings), warnings)
	}
	if penalty != MaxPenalty {
		t.Errorf("penalty = %v, want cap %v", penalty, MaxPenalty)
	}
}

func TestCheckRealisticRangesSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	// No rainfall key at all: plausibility must not invent a warning.
	warnings, penalty := CheckRealisticRanges(validPayload())
	if len(warnings) != 0 || penalty != 0 {
		t.Fatalf("expected clean result, got warnings=%v penalty=%v", warnings, penalty)
	}
}

func TestBuildFeatureVectorOrderAndMoistureExclusion(t *testing.T) {
	t.Parallel()

	payload := validPayload()
	payload["rainfall"] = 150.0

	vector, err := BuildFeatureVector(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{90, 42, 43, 25, 80, 6.5, 150}
	if len(vector) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vector), len(want))
	}
	for i := range want {
		if math.Abs(vector[i]-want[i]) > 1e-12 {
			t.Errorf("vector[%d] = %v, want %v (order %v)", i, vector[i], want[i], FeatureOrder)
		}
	}
}
