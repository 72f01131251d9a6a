package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"agrisense/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	if err := seedClimatology(db); err != nil {
		return nil, fmt.Errorf("error seeding climatology table: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createClimatologyTable := `
    CREATE TABLE IF NOT EXISTS rainfall_climatology (
        district TEXT NOT NULL,
        month INTEGER NOT NULL,
        rainfall_mm REAL NOT NULL,
        PRIMARY KEY (district, month)
    );
    `

	if _, err := db.Exec(createClimatologyTable); err != nil {
		return fmt.Errorf("error creating rainfall_climatology table: %s", err)
	}

	return nil
}

// defaultMonthlyRainfall is a generic monsoon-pattern climatology used when a
// district has no records of its own. Values are millimetres per month.
var defaultMonthlyRainfall = map[time.Month]float64{
	time.January:   15,
	time.February:  20,
	time.March:     30,
	time.April:     45,
	time.May:       65,
	time.June:      165,
	time.July:      280,
	time.August:    260,
	time.September: 195,
	time.October:   110,
	time.November:  40,
	time.December:  15,
}

// seedClimatology inserts the default district rows on first run.
func seedClimatology(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM rainfall_climatology WHERE district = 'default'`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO rainfall_climatology (district, month, rainfall_mm) VALUES ('default', ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for month := time.January; month <= time.December; month++ {
		if _, err := stmt.Exec(int(month), defaultMonthlyRainfall[month]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (c *SQLiteClient) MonthlyAverage(ctx context.Context, district string, month time.Month) (float64, bool, error) {
	district = normalizeDistrict(district)

	var rainfall float64
	err := c.db.QueryRowContext(ctx,
		`SELECT rainfall_mm FROM rainfall_climatology WHERE district = ? AND month = ?`,
		district, int(month)).Scan(&rainfall)
	if err == sql.ErrNoRows && district != "default" {
		err = c.db.QueryRowContext(ctx,
			`SELECT rainfall_mm FROM rainfall_climatology WHERE district = 'default' AND month = ?`,
			int(month)).Scan(&rainfall)
	}
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error querying climatology: %s", err)
	}
	return rainfall, true, nil
}

func (c *SQLiteClient) UpsertMonthlyAverage(ctx context.Context, district string, month time.Month, rainfallMM float64) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO rainfall_climatology (district, month, rainfall_mm) VALUES (?, ?, ?)
         ON CONFLICT(district, month) DO UPDATE SET rainfall_mm = excluded.rainfall_mm`,
		normalizeDistrict(district), int(month), rainfallMM)
	if err != nil {
		return fmt.Errorf("error upserting climatology: %s", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func normalizeDistrict(district string) string {
	district = strings.ToLower(strings.TrimSpace(district))
	if district == "" {
		return "default"
	}
	return district
}
