package crop

// Input validation for the recommendation pipeline.
//
// Two distinct stages, mirroring the API contract:
//
//  1. ValidateReading checks that every required field is present and
//     numeric. Any failure here rejects the request outright (HTTP 400)
//     with the full list of problems, never just the first.
//  2. CheckRealisticRanges flags values outside plausible agricultural
//     ranges. These are never errors: each violation adds a warning and a
//     fixed confidence penalty so the pipeline still answers, just less
//     confidently.

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RequiredFields are the keys a sensor payload must carry. Rainfall is
// deliberately absent: most low-cost field kits lack a rain gauge, so it is
// optional and backfilled by the rainfall estimator.
var RequiredFields = []string{"N", "P", "K", "ph", "moisture", "temperature", "humidity"}

// fieldRange is a plausibility bound used only for warnings, never for
// rejecting input.
type fieldRange struct {
	Field string
	Min   float64
	Max   float64
	Label string
}

// realisticRanges is ordered so that warnings come out deterministically.
var realisticRanges = []fieldRange{
	{"N", 0, 200, "Nitrogen (N)"},
	{"P", 0, 200, "Phosphorus (P)"},
	{"K", 0, 300, "Potassium (K)"},
	{"temperature", -10, 60, "Temperature"},
	{"humidity", 0, 100, "Humidity"},
	{"ph", 0, 14, "pH"},
	{"rainfall", 0, 500, "Rainfall"},
	{"moisture", 0, 100, "Soil Moisture"},
}

// PenaltyPerWarning is subtracted from every reported confidence for each
// out-of-range field.
const PenaltyPerWarning = 0.10

// MaxPenalty caps the accumulated penalty so the system still yields a
// usable (if low-confidence) answer on badly implausible input.
const MaxPenalty = 0.50

// ValidateReading checks that every required field is present and numeric.
// An empty result means the payload is valid.
func ValidateReading(payload map[string]any) []string {
	if payload == nil {
		return []string{"Request body is empty or not valid JSON."}
	}

	var errs []string
	for _, field := range RequiredFields {
		value, ok := payload[field]
		if !ok || value == nil {
			errs = append(errs, fmt.Sprintf("Missing required field: '%s'.", field))
			continue
		}
		if _, ok := NumericValue(value); !ok {
			errs = append(errs, fmt.Sprintf("Field '%s' must be a number, got: %s.", field, repr(value)))
		}
	}

	return errs
}

// CheckRealisticRanges verifies each provided value against its plausible
// agricultural range. Absent fields are skipped. The returned penalty is
// PenaltyPerWarning per violation, capped at MaxPenalty.
func CheckRealisticRanges(payload map[string]any) ([]string, float64) {
	var warnings []string
	totalPenalty := 0.0

	for _, r := range realisticRanges {
		raw, ok := payload[r.Field]
		if !ok || raw == nil {
			continue // optional field not provided
		}
		value, ok := NumericValue(raw)
		if !ok {
			continue // non-numeric values are a validation concern, not ours
		}

		switch {
		case value < r.Min:
			warnings = append(warnings, fmt.Sprintf(
				"Input %s (%v) is below the expected minimum (%v).", r.Label, value, r.Min))
			totalPenalty += PenaltyPerWarning
		case value > r.Max:
			warnings = append(warnings, fmt.Sprintf(
				"Input %s (%v) is above the expected maximum (%v).", r.Label, value, r.Max))
			totalPenalty += PenaltyPerWarning
		}
	}

	if totalPenalty > MaxPenalty {
		totalPenalty = MaxPenalty
	}

	return warnings, totalPenalty
}

// NumericValue converts a decoded JSON value to a float64 where the legacy
// contract allows it: JSON numbers, numeric strings and booleans all count
// as numbers.
func NumericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case bool:
		if v {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// repr mimics the upstream clients' error payloads, which quote strings and
// print everything else verbatim.
func repr(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("'%s'", s)
	}
	return fmt.Sprintf("%v", value)
}
