package main

import (
	"context"
	"time"

	"agrisense/crop"
	"agrisense/metrics"
	"agrisense/rainfall"
)

// recommender runs the full pipeline shared by the HTTP handler and the
// socket channel: validation, rainfall fallback, plausibility checks,
// scaling, inference and top-3 assembly.
type recommender struct {
	engine    *crop.Engine
	estimator *rainfall.Estimator
}

func newRecommender(engine *crop.Engine, estimator *rainfall.Estimator) *recommender {
	return &recommender{engine: engine, estimator: estimator}
}

func (rc *recommender) modelLoaded() bool {
	return rc != nil && rc.engine != nil
}

// Analyze runs one sensor payload through the pipeline. A non-nil error
// slice means validation failed and no summary was produced.
func (rc *recommender) Analyze(ctx context.Context, payload map[string]any) (*crop.Summary, []string, error) {
	start := time.Now()

	if errs := crop.ValidateReading(payload); len(errs) > 0 {
		metrics.ValidationFailuresTotal.Inc()
		return nil, errs, nil
	}

	// Rainfall fallback: many low-cost sensor kits ship without a rain
	// gauge, so a missing or null reading is estimated instead.
	rainfallSource := rainfall.SourceSensor
	if v, ok := payload["rainfall"]; !ok || v == nil {
		lat, lon := optionalCoordinate(payload, "latitude"), optionalCoordinate(payload, "longitude")
		district, _ := payload["district"].(string)
		payload["rainfall"] = rc.estimator.Estimate(ctx, lat, lon, district)
		rainfallSource = rainfall.SourceEstimated
	}
	metrics.RainfallSourceTotal.WithLabelValues(rainfallSource).Inc()

	warnings, penalty := crop.CheckRealisticRanges(payload)
	metrics.PlausibilityWarningsTotal.Add(float64(len(warnings)))

	features, err := crop.BuildFeatureVector(payload)
	if err != nil {
		return nil, nil, err
	}

	scaled := rc.engine.Scale(features)
	probabilities, err := rc.engine.PredictProbabilities(scaled)
	if err != nil {
		return nil, nil, err
	}

	rainfallUsed, _ := crop.NumericValue(payload["rainfall"])
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())

	summary := &crop.Summary{
		Recommendations: crop.TopRecommendations(probabilities, rc.engine.Classes(), penalty),
		Warnings:        nilIfEmpty(warnings),
		Metadata: crop.Metadata{
			RainfallSource:    rainfallSource,
			RainfallValueUsed: rainfallUsed,
		},
		LatencyMs:     latency,
		FeatureVector: features,
	}

	return summary, nil, nil
}

func optionalCoordinate(payload map[string]any, key string) *float64 {
	if v, ok := payload[key]; ok {
		if f, ok := crop.NumericValue(v); ok {
			return &f
		}
	}
	return nil
}

func nilIfEmpty(warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
