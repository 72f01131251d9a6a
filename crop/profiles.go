package crop

// Per-crop realistic feature ranges used to synthesize training data.
// Approximations based on Indian agricultural datasets; treated as a
// versioned configuration asset alongside the model artifacts.

import "math/rand"

// FeatureRange bounds one feature for one crop.
type FeatureRange struct {
	Min float64
	Max float64
}

// CropProfile describes the conditions a crop thrives in, one range per
// model feature.
type CropProfile struct {
	Name        string
	N           FeatureRange
	P           FeatureRange
	K           FeatureRange
	Temperature FeatureRange
	Humidity    FeatureRange
	PH          FeatureRange
	Rainfall    FeatureRange
}

// SamplesPerCrop is the number of synthetic rows generated per crop class.
const SamplesPerCrop = 120

// noiseSigma is the standard deviation of the Gaussian noise added to every
// sampled feature for more natural variance.
const noiseSigma = 0.5

// CropProfiles lists the 22 supported crops in a stable order.
var CropProfiles = []CropProfile{
	{"Rice", FeatureRange{60, 100}, FeatureRange{35, 60}, FeatureRange{35, 55}, FeatureRange{20, 28}, FeatureRange{78, 92}, FeatureRange{5.0, 7.0}, FeatureRange{180, 260}},
	{"Wheat", FeatureRange{70, 120}, FeatureRange{50, 75}, FeatureRange{45, 65}, FeatureRange{12, 25}, FeatureRange{50, 70}, FeatureRange{5.5, 7.5}, FeatureRange{50, 120}},
	{"Maize", FeatureRange{60, 100}, FeatureRange{35, 60}, FeatureRange{30, 50}, FeatureRange{18, 30}, FeatureRange{55, 75}, FeatureRange{5.5, 7.5}, FeatureRange{60, 110}},
	{"Jute", FeatureRange{60, 100}, FeatureRange{35, 55}, FeatureRange{35, 55}, FeatureRange{24, 37}, FeatureRange{70, 90}, FeatureRange{6.0, 7.5}, FeatureRange{150, 250}},
	{"Cotton", FeatureRange{100, 140}, FeatureRange{40, 65}, FeatureRange{18, 30}, FeatureRange{22, 32}, FeatureRange{60, 80}, FeatureRange{6.0, 8.0}, FeatureRange{60, 110}},
	{"Coconut", FeatureRange{15, 30}, FeatureRange{8, 18}, FeatureRange{28, 40}, FeatureRange{25, 32}, FeatureRange{80, 95}, FeatureRange{5.0, 7.0}, FeatureRange{130, 220}},
	{"Coffee", FeatureRange{90, 130}, FeatureRange{15, 30}, FeatureRange{25, 40}, FeatureRange{22, 30}, FeatureRange{50, 70}, FeatureRange{6.0, 7.0}, FeatureRange{120, 200}},
	{"Sugarcane", FeatureRange{70, 120}, FeatureRange{30, 55}, FeatureRange{30, 50}, FeatureRange{25, 35}, FeatureRange{65, 85}, FeatureRange{5.0, 8.0}, FeatureRange{80, 150}},
	{"Tea", FeatureRange{15, 30}, FeatureRange{5, 10}, FeatureRange{20, 35}, FeatureRange{18, 28}, FeatureRange{70, 90}, FeatureRange{4.5, 6.0}, FeatureRange{150, 300}},
	{"Banana", FeatureRange{80, 120}, FeatureRange{70, 100}, FeatureRange{45, 60}, FeatureRange{25, 35}, FeatureRange{75, 90}, FeatureRange{5.5, 7.0}, FeatureRange{90, 180}},
	{"Mango", FeatureRange{15, 30}, FeatureRange{15, 30}, FeatureRange{25, 45}, FeatureRange{27, 35}, FeatureRange{45, 65}, FeatureRange{5.5, 7.5}, FeatureRange{40, 100}},
	{"Grapes", FeatureRange{15, 30}, FeatureRange{120, 150}, FeatureRange{190, 210}, FeatureRange{10, 20}, FeatureRange{78, 88}, FeatureRange{5.5, 7.0}, FeatureRange{60, 80}},
	{"Apple", FeatureRange{15, 30}, FeatureRange{120, 145}, FeatureRange{195, 210}, FeatureRange{20, 25}, FeatureRange{88, 94}, FeatureRange{5.5, 6.5}, FeatureRange{100, 130}},
	{"Orange", FeatureRange{15, 25}, FeatureRange{8, 15}, FeatureRange{8, 15}, FeatureRange{22, 32}, FeatureRange{88, 95}, FeatureRange{6.5, 7.5}, FeatureRange{90, 120}},
	{"Papaya", FeatureRange{40, 65}, FeatureRange{55, 75}, FeatureRange{48, 60}, FeatureRange{28, 38}, FeatureRange{88, 95}, FeatureRange{6.0, 7.0}, FeatureRange{40, 70}},
	{"Lentil", FeatureRange{15, 25}, FeatureRange{55, 80}, FeatureRange{15, 25}, FeatureRange{20, 28}, FeatureRange{30, 50}, FeatureRange{6.0, 8.0}, FeatureRange{35, 55}},
	{"Chickpea", FeatureRange{30, 50}, FeatureRange{60, 80}, FeatureRange{75, 85}, FeatureRange{15, 25}, FeatureRange{14, 20}, FeatureRange{6.5, 8.0}, FeatureRange{60, 90}},
	{"Muskmelon", FeatureRange{90, 110}, FeatureRange{15, 25}, FeatureRange{45, 60}, FeatureRange{28, 35}, FeatureRange{88, 95}, FeatureRange{6.0, 7.0}, FeatureRange{20, 40}},
	{"Watermelon", FeatureRange{80, 110}, FeatureRange{15, 25}, FeatureRange{48, 55}, FeatureRange{25, 32}, FeatureRange{82, 90}, FeatureRange{6.0, 7.0}, FeatureRange{40, 60}},
	{"Potato", FeatureRange{55, 75}, FeatureRange{55, 70}, FeatureRange{75, 85}, FeatureRange{15, 22}, FeatureRange{70, 85}, FeatureRange{4.5, 6.5}, FeatureRange{35, 55}},
	{"Tomato", FeatureRange{70, 95}, FeatureRange{55, 70}, FeatureRange{58, 68}, FeatureRange{22, 30}, FeatureRange{78, 88}, FeatureRange{6.0, 7.5}, FeatureRange{40, 60}},
	{"Soybean", FeatureRange{15, 30}, FeatureRange{55, 75}, FeatureRange{18, 28}, FeatureRange{20, 30}, FeatureRange{60, 80}, FeatureRange{5.5, 7.0}, FeatureRange{55, 85}},
}

// ranges returns the profile bounds in FeatureOrder.
func (p CropProfile) ranges() []FeatureRange {
	return []FeatureRange{p.N, p.P, p.K, p.Temperature, p.Humidity, p.PH, p.Rainfall}
}

// Sample draws one synthetic feature vector: uniform within each range,
// plus Gaussian noise. pH is clamped back to its physical [0,14] domain
// after the noise.
func (p CropProfile) Sample(rng *rand.Rand) []float64 {
	bounds := p.ranges()
	vector := make([]float64, len(bounds))
	for i, b := range bounds {
		vector[i] = b.Min + rng.Float64()*(b.Max-b.Min) + rng.NormFloat64()*noiseSigma
	}

	// pH sits at index 5 of FeatureOrder
	if vector[5] < 0 {
		vector[5] = 0
	}
	if vector[5] > 14 {
		vector[5] = 14
	}

	return vector
}

// SyntheticDataset generates perCrop rows for every profile, returning the
// feature matrix and the parallel label slice.
func SyntheticDataset(rng *rand.Rand, perCrop int) ([][]float64, []string) {
	features := make([][]float64, 0, perCrop*len(CropProfiles))
	labels := make([]string, 0, perCrop*len(CropProfiles))

	for _, profile := range CropProfiles {
		for i := 0; i < perCrop; i++ {
			features = append(features, profile.Sample(rng))
			labels = append(labels, profile.Name)
		}
	}

	return features, labels
}
