package crop

// Model artifacts and the inference engine.
//
// The trained classifier and the fitted scaler are two versioned JSON
// documents on disk (crop_model.json, scaler.json). JSON keeps them
// language-neutral: the same files can be produced or consumed by any
// toolchain that respects the schema version and feature order. Both files
// embed the feature order they were fit with, and loading refuses any
// mismatch with FeatureOrder — a silent reorder would corrupt every
// prediction without a single error.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactSchemaVersion is bumped whenever the on-disk layout of the model
// or scaler files changes incompatibly.
const ArtifactSchemaVersion = 1

// DefaultNeighbourCount is the k used when the environment doesn't say
// otherwise.
const DefaultNeighbourCount = 15

// ModelFile is the serialized classifier: the prototype set plus the
// metadata needed to refuse incompatible inputs.
type ModelFile struct {
	SchemaVersion  int         `json:"schema_version"`
	FeatureOrder   []string    `json:"feature_order"`
	SamplesPerCrop int         `json:"samples_per_crop"`
	TrainedAt      time.Time   `json:"trained_at"`
	Prototypes     []Prototype `json:"prototypes"`
}

// ScalerFile is the serialized z-score scaler.
type ScalerFile struct {
	SchemaVersion int       `json:"schema_version"`
	FeatureOrder  []string  `json:"feature_order"`
	Mean          []float64 `json:"mean"`
	Stddev        []float64 `json:"stddev"`
}

// Engine wraps the pre-trained classifier and fitted scaler. It is
// constructed once at process start and shared read-only across requests;
// Scale and PredictProbabilities are reentrant.
type Engine struct {
	classifier *Classifier
	scaler     *FeatureScaler
}

// LoadEngine reads both artifacts and assembles the inference engine.
// Callers treat an error as "model not loaded": the recommend endpoint
// returns 503 but the process keeps serving.
func LoadEngine(modelPath, scalerPath string, k int) (*Engine, error) {
	model, err := loadModelFile(modelPath)
	if err != nil {
		return nil, err
	}

	scaler, err := loadScalerFile(scalerPath)
	if err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(model.Prototypes, k)
	if err != nil {
		return nil, fmt.Errorf("unable to build classifier: %w", err)
	}

	fs := &FeatureScaler{Mean: scaler.Mean, Stddev: scaler.Stddev}
	if fs.Dim() != FeatureCount {
		return nil, fmt.Errorf("scaler has %d dimensions, expected %d", fs.Dim(), FeatureCount)
	}

	return &Engine{classifier: classifier, scaler: fs}, nil
}

// Scale applies the fitted z-score transform to a raw feature vector.
func (e *Engine) Scale(vector []float64) []float64 {
	return e.scaler.Transform(vector)
}

// PredictProbabilities maps a scaled vector to a distribution over crops.
func (e *Engine) PredictProbabilities(scaled []float64) (map[string]float64, error) {
	return e.classifier.PredictProbabilities(scaled)
}

// Classes exposes the classifier's natural class ordering.
func (e *Engine) Classes() []string {
	return e.classifier.Classes()
}

// Stats exposes metadata about the loaded model.
func (e *Engine) Stats() ModelStats {
	return e.classifier.Stats()
}

func loadModelFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load model (%s): %w", path, err)
	}

	var model ModelFile
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("unable to parse model: %w", err)
	}
	if model.SchemaVersion != ArtifactSchemaVersion {
		return nil, fmt.Errorf("model schema version %d not supported (want %d)",
			model.SchemaVersion, ArtifactSchemaVersion)
	}
	if err := checkFeatureOrder(model.FeatureOrder); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	if len(model.Prototypes) == 0 {
		return nil, errors.New("model contains no prototypes")
	}

	return &model, nil
}

func loadScalerFile(path string) (*ScalerFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load scaler (%s): %w", path, err)
	}

	var scaler ScalerFile
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("unable to parse scaler: %w", err)
	}
	if scaler.SchemaVersion != ArtifactSchemaVersion {
		return nil, fmt.Errorf("scaler schema version %d not supported (want %d)",
			scaler.SchemaVersion, ArtifactSchemaVersion)
	}
	if err := checkFeatureOrder(scaler.FeatureOrder); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	if len(scaler.Mean) != len(scaler.Stddev) {
		return nil, errors.New("scaler mean/stddev length mismatch")
	}

	return &scaler, nil
}

func checkFeatureOrder(order []string) error {
	if len(order) != len(FeatureOrder) {
		return fmt.Errorf("feature order has %d entries, expected %d", len(order), len(FeatureOrder))
	}
	for i, field := range order {
		if field != FeatureOrder[i] {
			return fmt.Errorf("feature order mismatch at %d: %q != %q", i, field, FeatureOrder[i])
		}
	}
	return nil
}

// SaveArtifact writes a model or scaler document atomically: temp file
// first, then rename, so a crash mid-write never leaves a torn artifact.
func SaveArtifact(path string, doc any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
