package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	id, err := store.Record(Run{
		EntryURLs:     []string{"index.html"},
		DocumentCount: 3,
		FeatureCount:  12,
		ErrorCount:    1,
		WarningCount:  2,
		Duration:      42 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected an assigned run id")
	}

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.RunID != id || run.DocumentCount != 3 || run.FeatureCount != 12 {
		t.Errorf("run: %+v", run)
	}
	if len(run.EntryURLs) != 1 || run.EntryURLs[0] != "index.html" {
		t.Errorf("entries: %v", run.EntryURLs)
	}
	if run.Duration != 42*time.Millisecond {
		t.Errorf("duration: %v", run.Duration)
	}
}

func TestRecentOrdering(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	if _, err := store.Record(Run{Timestamp: older, EntryURLs: []string{"old.html"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Record(Run{Timestamp: newer, EntryURLs: []string{"new.html"}}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].EntryURLs[0] != "new.html" {
		t.Errorf("runs out of order: %+v", runs)
	}
}
