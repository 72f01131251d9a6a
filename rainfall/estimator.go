package rainfall

// Rainfall fallback chain for payloads without a rain gauge reading.
//
// Tier 1: live weather lookup keyed by device coordinates.
// Tier 2: historical climatology keyed by (district, month).
// Tier 3: fixed regional seasonal average.
//
// The estimator never fails: every tier's error is swallowed and falls
// through to the next, so the model always receives a numeric rainfall
// input.

import (
	"context"
	"log/slog"
	"time"

	"agrisense/utils"
)

// DefaultRainfallMM is the all-region Kharif-season average used when
// everything else is unavailable.
const DefaultRainfallMM = 120.0

// Source tags recorded in response metadata.
const (
	SourceSensor    = "sensor"
	SourceEstimated = "estimated (fallback)"
)

// WeatherSource is the optional live tier.
type WeatherSource interface {
	RecentRainfall(ctx context.Context, lat, lon float64) (float64, error)
}

// ClimatologyStore is the historical tier, keyed by district and month.
type ClimatologyStore interface {
	MonthlyAverage(ctx context.Context, district string, month time.Month) (float64, bool, error)
}

// Estimator produces a rainfall value when the caller supplied none. Either
// collaborator may be nil; the chain simply skips that tier.
type Estimator struct {
	weather WeatherSource
	store   ClimatologyStore
	now     func() time.Time
}

// NewEstimator wires the fallback chain.
func NewEstimator(weather WeatherSource, store ClimatologyStore) *Estimator {
	return &Estimator{weather: weather, store: store, now: time.Now}
}

// Estimate returns a usable rainfall value in millimeters. Coordinates are
// optional (nil when the device did not report them); district may be empty.
func (e *Estimator) Estimate(ctx context.Context, lat, lon *float64, district string) float64 {
	logger := utils.GetLogger()

	if e.weather != nil && lat != nil && lon != nil {
		if mm, err := e.weather.RecentRainfall(ctx, *lat, *lon); err == nil {
			return mm
		} else {
			logger.WarnContext(ctx, "weather lookup failed, using climatology",
				slog.Any("error", err))
		}
	}

	if e.store != nil {
		if mm, ok, err := e.store.MonthlyAverage(ctx, district, e.now().Month()); err == nil && ok {
			return mm
		} else if err != nil {
			logger.WarnContext(ctx, "climatology lookup failed, using regional default",
				slog.Any("error", err))
		}
	}

	return DefaultRainfallMM
}
