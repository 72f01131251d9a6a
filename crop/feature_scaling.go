package crop

// Feature scaling.
//
// The soil features span wildly different magnitudes (potassium up to 300
// mg/kg, pH between 0 and 14). Without standardization the large-magnitude
// nutrients dominate every distance calculation, so each dimension is
// z-scored with parameters fitted once at training time and shipped as part
// of the model artifacts.

import (
	"errors"
	"math"
)

// FeatureScaler standardizes features using z-score normalization. Each
// dimension is transformed to mean=0, std=1 relative to the training set.
type FeatureScaler struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// NewFeatureScalerFromSamples computes scaling parameters from a training
// matrix. All rows must share the same dimensionality.
func NewFeatureScalerFromSamples(samples [][]float64) (*FeatureScaler, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples provided")
	}

	featureCount := len(samples[0])
	if featureCount == 0 {
		return nil, errors.New("samples have no features")
	}

	mean := make([]float64, featureCount)
	for _, row := range samples {
		if len(row) != featureCount {
			return nil, errors.New("inconsistent feature dimensions")
		}
		for i, val := range row {
			mean[i] += val
		}
	}
	for i := range mean {
		mean[i] /= float64(len(samples))
	}

	stddev := make([]float64, featureCount)
	for _, row := range samples {
		for i, val := range row {
			diff := val - mean[i]
			stddev[i] += diff * diff
		}
	}
	for i := range stddev {
		stddev[i] = math.Sqrt(stddev[i] / float64(len(samples)))
		// Prevent division by zero for constant features
		if stddev[i] < 1e-10 {
			stddev[i] = 1.0
		}
	}

	return &FeatureScaler{Mean: mean, Stddev: stddev}, nil
}

// Dim returns the dimensionality the scaler was fitted with.
func (fs *FeatureScaler) Dim() int {
	return len(fs.Mean)
}

// Transform applies z-score standardization to a feature vector. The input
// is not mutated.
func (fs *FeatureScaler) Transform(features []float64) []float64 {
	if len(features) != len(fs.Mean) {
		return features // dimensions don't match; leave untouched
	}

	scaled := make([]float64, len(features))
	for i, val := range features {
		scaled[i] = (val - fs.Mean[i]) / fs.Stddev[i]
	}

	return scaled
}
