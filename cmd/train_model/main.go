package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"agrisense/crop"
)

// Config holds training configuration
type Config struct {
	OutputDir      string
	SamplesPerCrop int
	Seed           int64
	TestFraction   float64
	NeighbourCount int
	Verbose        bool
}

func main() {
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== Crop Recommendation Model Trainer ===\n")
	log.Printf("Output dir: %s\n", config.OutputDir)
	log.Printf("Samples per crop: %d, seed: %d\n", config.SamplesPerCrop, config.Seed)
	log.Println()

	startTime := time.Now()
	rng := rand.New(rand.NewSource(config.Seed))

	// Step 1: Generate the synthetic dataset
	log.Println("Step 1: Generating synthetic dataset from crop profiles...")
	features, labels := crop.SyntheticDataset(rng, config.SamplesPerCrop)
	log.Printf("Generated %d samples across %d crops\n", len(features), len(crop.CropProfiles))
	log.Println()

	// Step 2: Shuffle and split into train / hold-out sets
	log.Println("Step 2: Splitting train / hold-out sets...")
	trainX, trainY, testX, testY := splitDataset(rng, features, labels, config.TestFraction)
	log.Printf("Train: %d samples, hold-out: %d samples\n", len(trainX), len(testX))
	log.Println()

	// Step 3: Fit the scaler on the training split only
	log.Println("Step 3: Fitting feature scaler...")
	scaler, err := crop.NewFeatureScalerFromSamples(trainX)
	if err != nil {
		log.Fatalf("ERROR: Failed to fit scaler: %v", err)
	}

	// Step 4: Build prototypes in scaled space
	log.Println("Step 4: Building prototypes...")
	prototypes := make([]crop.Prototype, len(trainX))
	for i, sample := range trainX {
		prototypes[i] = crop.Prototype{
			ID:       fmt.Sprintf("%s-%04d", trainY[i], i),
			Label:    trainY[i],
			Features: scaler.Transform(sample),
		}
	}

	classifier, err := crop.NewClassifier(prototypes, config.NeighbourCount)
	if err != nil {
		log.Fatalf("ERROR: Failed to build classifier: %v", err)
	}
	log.Println()

	// Step 5: Evaluate on the hold-out set
	log.Println("Step 5: Evaluating on hold-out set...")
	evaluate(classifier, scaler, testX, testY, config.Verbose)
	log.Println()

	// Step 6: Save artifacts
	log.Println("Step 6: Saving model artifacts...")
	modelPath := filepath.Join(config.OutputDir, "crop_model.json")
	scalerPath := filepath.Join(config.OutputDir, "scaler.json")

	model := crop.ModelFile{
		SchemaVersion:  crop.ArtifactSchemaVersion,
		FeatureOrder:   crop.FeatureOrder,
		SamplesPerCrop: config.SamplesPerCrop,
		TrainedAt:      time.Now().UTC(),
		Prototypes:     prototypes,
	}
	if err := crop.SaveArtifact(modelPath, model); err != nil {
		log.Fatalf("ERROR: Failed to save model: %v", err)
	}

	scalerDoc := crop.ScalerFile{
		SchemaVersion: crop.ArtifactSchemaVersion,
		FeatureOrder:  crop.FeatureOrder,
		Mean:          scaler.Mean,
		Stddev:        scaler.Stddev,
	}
	if err := crop.SaveArtifact(scalerPath, scalerDoc); err != nil {
		log.Fatalf("ERROR: Failed to save scaler: %v", err)
	}

	log.Printf("Model saved to:  %s\n", modelPath)
	log.Printf("Scaler saved to: %s\n", scalerPath)
	log.Printf("Done in %.2fs\n", time.Since(startTime).Seconds())
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.OutputDir, "output", "model",
		"Output directory for crop_model.json and scaler.json")
	flag.IntVar(&config.SamplesPerCrop, "samples", crop.SamplesPerCrop,
		"Synthetic samples to generate per crop")
	flag.Int64Var(&config.Seed, "seed", 42,
		"Random seed for dataset generation and the split")
	flag.Float64Var(&config.TestFraction, "test-fraction", 0.2,
		"Fraction of samples held out for evaluation")
	flag.IntVar(&config.NeighbourCount, "k", crop.DefaultNeighbourCount,
		"Neighbour count used for the hold-out evaluation")
	flag.BoolVar(&config.Verbose, "verbose", false,
		"Print the per-crop report")

	flag.Parse()

	if config.SamplesPerCrop <= 0 {
		log.Fatalf("ERROR: -samples must be positive, got %d", config.SamplesPerCrop)
	}
	if config.TestFraction <= 0 || config.TestFraction >= 1 {
		log.Fatalf("ERROR: -test-fraction must be in (0, 1), got %v", config.TestFraction)
	}

	return config
}

func splitDataset(rng *rand.Rand, features [][]float64, labels []string, testFraction float64) (trainX [][]float64, trainY []string, testX [][]float64, testY []string) {
	order := rng.Perm(len(features))
	testCount := int(float64(len(features)) * testFraction)

	for i, idx := range order {
		if i < testCount {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

func evaluate(classifier *crop.Classifier, scaler *crop.FeatureScaler, testX [][]float64, testY []string, verbose bool) {
	correct := 0
	perCropTotal := map[string]int{}
	perCropCorrect := map[string]int{}

	for i, sample := range testX {
		probabilities, err := classifier.PredictProbabilities(scaler.Transform(sample))
		if err != nil {
			log.Fatalf("ERROR: Prediction failed during evaluation: %v", err)
		}

		predicted := argmax(probabilities)
		perCropTotal[testY[i]]++
		if predicted == testY[i] {
			correct++
			perCropCorrect[testY[i]]++
		}
	}

	accuracy := float64(correct) / float64(len(testX))
	log.Printf("Hold-out accuracy: %.2f%% (%d/%d)\n", accuracy*100, correct, len(testX))

	if !verbose {
		return
	}

	crops := make([]string, 0, len(perCropTotal))
	for name := range perCropTotal {
		crops = append(crops, name)
	}
	sort.Strings(crops)

	fmt.Fprintln(os.Stderr, "Per-crop accuracy:")
	for _, name := range crops {
		fmt.Fprintf(os.Stderr, "  %-12s %3d/%3d\n", name, perCropCorrect[name], perCropTotal[name])
	}
}

func argmax(probabilities map[string]float64) string {
	best, bestProb := "", -1.0
	for label, prob := range probabilities {
		if prob > bestProb || (prob == bestProb && label < best) {
			best, bestProb = label, prob
		}
	}
	return best
}
