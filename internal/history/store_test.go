package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wordmill/internal/history"
	"wordmill/internal/testsupport"
)

func TestSaveAndGetRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run := &history.Run{
		RunID:             "run-1",
		WordCount:         100,
		Successful:        97,
		Failed:            3,
		PrimaryBatches:    4,
		FailureBatches:    1,
		IndividualRetries: 2,
		TotalAPICalls:     7,
		APIEfficiency:     14.29,
		ReportPath:        "/tmp/report.json",
		ReportJSON:        `{"test_type":"tiered_batch_classification"}`,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected ID to be populated")
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be populated")
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID: %v", err)
	}
	if got.WordCount != 100 || got.Successful != 97 || got.Failed != 3 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.TotalAPICalls != 7 || got.APIEfficiency != 14.29 {
		t.Fatalf("unexpected call stats: %+v", got)
	}
	if got.ReportPath != "/tmp/report.json" {
		t.Fatalf("unexpected report path %q", got.ReportPath)
	}
	if got.ReportJSON == "" {
		t.Fatal("expected report json to round-trip")
	}
}

func TestGetByRunIDMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.GetByRunID(context.Background(), "nope")
	if !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestMostRecentAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		run := &history.Run{
			RunID:      id,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			WordCount:  10 * (i + 1),
			ReportJSON: "{}",
		}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	recent, err := store.MostRecent(ctx)
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if recent.RunID != "new" {
		t.Fatalf("expected newest run, got %q", recent.RunID)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "new" || runs[1].RunID != "mid" {
		t.Fatalf("unexpected list order: %+v", runs)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run := &history.Run{RunID: "dup", ReportJSON: "{}"}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := store.SaveRun(ctx, &history.Run{RunID: "dup", ReportJSON: "{}"}); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.SaveRun(ctx, &history.Run{RunID: "r", ReportJSON: "{}"}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.MostRecent(ctx); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected empty history, got %v", err)
	}
}
