package crop

// Recommendation assembly: probability distribution -> ranked top-3.

import (
	"fmt"
	"sort"
)

// ConfidenceFloor is the lowest confidence ever reported. The penalty can
// push an adjusted probability to zero or below; the floor keeps every
// returned recommendation usable.
const ConfidenceFloor = 0.01

// MaxRecommendations is how many crops a response carries at most.
const MaxRecommendations = 3

// TopRecommendations ranks the class probabilities descending and returns
// the top MaxRecommendations entries (or all of them when fewer classes
// exist). Ties keep the classifier's natural class ordering: the sort is
// stable over the classes slice. Each confidence is the raw probability
// minus the penalty, floored at ConfidenceFloor and formatted as an integer
// percentage. The distribution itself is deliberately not renormalized
// after the subtraction.
func TopRecommendations(probabilities map[string]float64, classes []string, penalty float64) []Recommendation {
	ranked := make([]string, len(classes))
	copy(ranked, classes)

	sort.SliceStable(ranked, func(i, j int) bool {
		return probabilities[ranked[i]] > probabilities[ranked[j]]
	})

	count := MaxRecommendations
	if len(ranked) < count {
		count = len(ranked)
	}

	recommendations := make([]Recommendation, 0, count)
	for _, label := range ranked[:count] {
		adjusted := probabilities[label] - penalty
		if adjusted < ConfidenceFloor {
			adjusted = ConfidenceFloor
		}
		recommendations = append(recommendations, Recommendation{
			Crop:       label,
			Confidence: formatConfidence(adjusted),
		})
	}

	return recommendations
}

func formatConfidence(value float64) string {
	return fmt.Sprintf("%.0f%%", value*100)
}
