package crop

// K-Nearest Neighbors Classifier for Crop Recommendation
//
// A prototype-based classifier over synthetic agronomic samples.
//
// 1. Prototype Storage:
//    - Each prototype is a labelled training sample in scaled feature space
//    - Prototypes are produced offline by cmd/train_model
//
// 2. Classification Process:
//    - The incoming reading is vectorized and scaled with the same
//      parameters used at training time
//    - Euclidean distance is computed between the input and all prototypes
//    - The k nearest prototypes are selected (default k=15)
//
// 3. Probability Aggregation:
//    - For each crop, aggregate weights from matching prototypes
//    - Weight = 1 / (distance + epsilon) so closer prototypes count more
//    - Probability = sum of weights for crop / total weight of k neighbors
//    - Crops outside the neighborhood get probability 0
//
// The resulting distribution always sums to 1, satisfying the inference
// contract the recommendation assembler depends on.

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Classifier performs k-nearest prototype lookups in scaled feature space.
type Classifier struct {
	mu         sync.RWMutex
	prototypes []Prototype
	classes    []string
	k          int
}

type distancePair struct {
	index    int
	distance float64
}

// NewClassifier builds a classifier from a prototype set. The class list is
// captured once, sorted, and becomes the natural class ordering used for
// tie-breaking downstream.
func NewClassifier(prototypes []Prototype, k int) (*Classifier, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid neighbour count: %d", k)
	}
	if len(prototypes) == 0 {
		return nil, errors.New("no prototypes provided")
	}

	featureCount := len(prototypes[0].Features)
	seen := make(map[string]struct{})
	for _, proto := range prototypes {
		if proto.Label == "" {
			return nil, fmt.Errorf("prototype %s missing label", proto.ID)
		}
		if len(proto.Features) != featureCount {
			return nil, fmt.Errorf("prototype %s has %d features, expected %d",
				proto.ID, len(proto.Features), featureCount)
		}
		seen[proto.Label] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	if k > len(prototypes) {
		k = len(prototypes)
	}

	return &Classifier{
		prototypes: prototypes,
		classes:    classes,
		k:          k,
	}, nil
}

// Classes returns the natural class ordering (sorted labels captured at
// construction). The returned slice must not be mutated by callers.
func (c *Classifier) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

// PredictProbabilities maps a scaled feature vector to a probability
// distribution over all known classes. Probabilities sum to 1.
func (c *Classifier) PredictProbabilities(scaled []float64) (map[string]float64, error) {
	if len(scaled) == 0 {
		return nil, errors.New("feature vector is empty")
	}

	c.mu.RLock()
	prototypes := c.prototypes
	classes := c.classes
	k := c.k
	c.mu.RUnlock()

	distances := make([]distancePair, len(prototypes))
	for i := range prototypes {
		distances[i] = distancePair{index: i, distance: euclideanDistance(scaled, prototypes[i].Features)}
	}
	sort.Slice(distances, func(i, j int) bool {
		return distances[i].distance < distances[j].distance
	})

	weights := make(map[string]float64, len(classes))
	var totalWeight float64
	for idx := 0; idx < len(distances) && idx < k; idx++ {
		neighbor := distances[idx]
		weight := 1.0 / (neighbor.distance + 1e-9) // epsilon avoids division by zero on exact hits
		weights[prototypes[neighbor.index].Label] += weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return nil, errors.New("no usable neighbours")
	}

	probabilities := make(map[string]float64, len(classes))
	for _, label := range classes {
		probabilities[label] = weights[label] / totalWeight
	}

	return probabilities, nil
}

// Stats returns summary metadata about the loaded prototype set.
func (c *Classifier) Stats() ModelStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	buckets := make(map[string]int)
	for _, proto := range c.prototypes {
		buckets[proto.Label]++
	}

	crops := make([]ModelCropStat, 0, len(c.classes))
	for _, label := range c.classes {
		crops = append(crops, ModelCropStat{Crop: label, Prototypes: buckets[label]})
	}

	return ModelStats{
		PrototypeCount: len(c.prototypes),
		CropCount:      len(c.classes),
		Crops:          crops,
		SchemaVersion:  ArtifactSchemaVersion,
	}
}

func euclideanDistance(a, b []float64) float64 {
	minLength := len(a)
	if len(b) < minLength {
		minLength = len(b)
	}

	var sum float64
	for i := 0; i < minLength; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	// Account for any remaining dimensions if vectors differ in length
	for i := minLength; i < len(a); i++ {
		sum += a[i] * a[i]
	}
	for i := minLength; i < len(b); i++ {
		sum += b[i] * b[i]
	}

	return math.Sqrt(sum)
}
