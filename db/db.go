package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrisense/utils"
)

// Client provides historical rainfall averages keyed by district and month.
type Client interface {
	// MonthlyAverage returns the average rainfall in millimetres for the
	// given district and month. The boolean is false when no record exists.
	MonthlyAverage(ctx context.Context, district string, month time.Month) (float64, bool, error)
	UpsertMonthlyAverage(ctx context.Context, district string, month time.Month, rainfallMM float64) error
	Close() error
}

// NewDBClient selects the storage backend from the DB_TYPE environment
// variable ("sqlite" or "mongo"). SQLite is the default.
func NewDBClient() (Client, error) {
	dbType := strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite"))
	switch dbType {
	case "sqlite", "":
		return NewSQLiteClient(utils.GetEnv("DB_PATH", "storage/climatology.db"))
	case "mongo", "mongodb":
		uri := utils.GetEnv("DB_URI", "mongodb://localhost:27017")
		name := utils.GetEnv("DB_NAME", "agrisense")
		return NewMongoClient(uri, name)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
}
