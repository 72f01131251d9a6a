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

// Config holds evaluation configuration
type Config struct {
	ModelDir       string
	SamplesPerCrop int
	Seed           int64
	NeighbourCount int
	TopConfusions  int
}

type confusion struct {
	actual    string
	predicted string
	count     int
}

func main() {
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== Crop Recommendation Model Evaluator ===\n")

	modelPath := filepath.Join(config.ModelDir, "crop_model.json")
	scalerPath := filepath.Join(config.ModelDir, "scaler.json")

	engine, err := crop.LoadEngine(modelPath, scalerPath, config.NeighbourCount)
	if err != nil {
		log.Fatalf("ERROR: Failed to load model artifacts: %v", err)
	}

	stats := engine.Stats()
	log.Printf("Loaded %d prototypes across %d crops\n", stats.PrototypeCount, stats.CropCount)
	log.Println()

	// Fresh synthetic data: a different seed than training means these
	// samples were never seen as prototypes.
	rng := rand.New(rand.NewSource(config.Seed))
	features, labels := crop.SyntheticDataset(rng, config.SamplesPerCrop)
	log.Printf("Evaluating on %d fresh samples (seed %d)\n", len(features), config.Seed)

	startTime := time.Now()
	correct := 0
	perCropTotal := map[string]int{}
	perCropCorrect := map[string]int{}
	confusions := map[[2]string]int{}

	for i, sample := range features {
		probabilities, err := engine.PredictProbabilities(engine.Scale(sample))
		if err != nil {
			log.Fatalf("ERROR: Prediction failed: %v", err)
		}

		predicted := argmax(probabilities)
		perCropTotal[labels[i]]++
		if predicted == labels[i] {
			correct++
			perCropCorrect[labels[i]]++
		} else {
			confusions[[2]string{labels[i], predicted}]++
		}
	}

	elapsed := time.Since(startTime)
	accuracy := float64(correct) / float64(len(features))

	log.Println()
	log.Printf("Accuracy: %.2f%% (%d/%d)\n", accuracy*100, correct, len(features))
	log.Printf("Mean latency: %.3f ms/sample\n",
		float64(elapsed.Microseconds())/1000.0/float64(len(features)))
	log.Println()

	printPerCropReport(perCropTotal, perCropCorrect)
	printTopConfusions(confusions, config.TopConfusions)
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.ModelDir, "model-dir", "model",
		"Directory containing crop_model.json and scaler.json")
	flag.IntVar(&config.SamplesPerCrop, "samples", 50,
		"Fresh synthetic samples to evaluate per crop")
	flag.Int64Var(&config.Seed, "seed", 1337,
		"Random seed for the evaluation set (use a different seed than training)")
	flag.IntVar(&config.NeighbourCount, "k", crop.DefaultNeighbourCount,
		"Neighbour count for inference")
	flag.IntVar(&config.TopConfusions, "top-confusions", 10,
		"How many of the most frequent confusions to print")

	flag.Parse()

	if config.SamplesPerCrop <= 0 {
		log.Fatalf("ERROR: -samples must be positive, got %d", config.SamplesPerCrop)
	}

	return config
}

func printPerCropReport(total, correct map[string]int) {
	crops := make([]string, 0, len(total))
	for name := range total {
		crops = append(crops, name)
	}
	sort.Strings(crops)

	fmt.Fprintln(os.Stderr, "Per-crop accuracy:")
	for _, name := range crops {
		pct := 100 * float64(correct[name]) / float64(total[name])
		fmt.Fprintf(os.Stderr, "  %-12s %3d/%3d  (%.1f%%)\n", name, correct[name], total[name], pct)
	}
	fmt.Fprintln(os.Stderr)
}

func printTopConfusions(confusions map[[2]string]int, limit int) {
	if len(confusions) == 0 {
		fmt.Fprintln(os.Stderr, "No confusions.")
		return
	}

	list := make([]confusion, 0, len(confusions))
	for pair, count := range confusions {
		list = append(list, confusion{actual: pair[0], predicted: pair[1], count: count})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		if list[i].actual != list[j].actual {
			return list[i].actual < list[j].actual
		}
		return list[i].predicted < list[j].predicted
	})

	if limit > len(list) {
		limit = len(list)
	}
	fmt.Fprintln(os.Stderr, "Most frequent confusions:")
	for _, c := range list[:limit] {
		fmt.Fprintf(os.Stderr, "  %-12s -> %-12s %d\n", c.actual, c.predicted, c.count)
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
