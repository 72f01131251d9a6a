package crop

import "fmt"

// FeatureOrder is the exact column order the scaler and classifier were fit
// with. Any deviation silently corrupts predictions, so everything that
// touches feature vectors goes through this slice.
var FeatureOrder = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// FeatureCount is the dimensionality of every feature vector.
const FeatureCount = 7

// BuildFeatureVector assembles the fixed-order numeric vector from a
// validated (and rainfall-filled) payload. Soil moisture is validated and
// range-checked upstream but the model was not trained on it, so it is not
// part of the vector.
func BuildFeatureVector(payload map[string]any) ([]float64, error) {
	vector := make([]float64, len(FeatureOrder))
	for i, field := range FeatureOrder {
		raw, ok := payload[field]
		if !ok || raw == nil {
			return nil, fmt.Errorf("feature %q missing from validated payload", field)
		}
		value, ok := NumericValue(raw)
		if !ok {
			return nil, fmt.Errorf("feature %q is not numeric: %v", field, raw)
		}
		vector[i] = value
	}
	return vector, nil
}
