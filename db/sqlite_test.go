package db

import (
	"context"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *SQLiteClient {
	t.Helper()

	client, err := NewSQLiteClient(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSQLiteSeedsDefaultClimatology(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	mm, ok, err := client.MonthlyAverage(ctx, "", time.June)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected seeded default row for June")
	}
	if mm != 165 {
		t.Errorf("June default = %v, want 165", mm)
	}

	mm, ok, err = client.MonthlyAverage(ctx, "", time.July)
	if err != nil || !ok {
		t.Fatalf("July lookup failed: ok=%v err=%v", ok, err)
	}
	if mm != 280 {
		t.Errorf("July default = %v, want 280", mm)
	}
}

func TestSQLiteUnknownDistrictFallsBackToDefault(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	mm, ok, err := client.MonthlyAverage(ctx, "nowhere", time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || mm != 15 {
		t.Errorf("fallback lookup = (%v, %v), want (15, true)", mm, ok)
	}
}

func TestSQLiteUpsertMonthlyAverage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	if err := client.UpsertMonthlyAverage(ctx, "Mysuru", time.June, 190.5); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// District names are case-insensitive.
	mm, ok, err := client.MonthlyAverage(ctx, "mysuru", time.June)
	if err != nil || !ok {
		t.Fatalf("lookup after upsert failed: ok=%v err=%v", ok, err)
	}
	if mm != 190.5 {
		t.Errorf("district value = %v, want 190.5", mm)
	}

	// Upsert over the same key replaces the value.
	if err := client.UpsertMonthlyAverage(ctx, "MYSURU", time.June, 210); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	mm, _, _ = client.MonthlyAverage(ctx, "mysuru", time.June)
	if mm != 210 {
		t.Errorf("replaced value = %v, want 210", mm)
	}
}
