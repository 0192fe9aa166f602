package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversDebouncedBatch(t *testing.T) {
	root := t.TempDir()

	changes := make(chan []string, 1)
	w, err := New(50*time.Millisecond, nil, func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(root); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(root, "a.html")
	if err := os.WriteFile(target, []byte("<p>1</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		found := false
		for _, p := range paths {
			if p == target {
				found = true
			}
		}
		if !found {
			t.Errorf("change batch %v missing %s", paths, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestWatcherExcludes(t *testing.T) {
	root := t.TempDir()

	changes := make(chan []string, 4)
	w, err := New(50*time.Millisecond, []string{"*.tmp"}, func(paths []string) {
		changes <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(root); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "x.tmp"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	kept := filepath.Join(root, "kept.html")
	if err := os.WriteFile(kept, []byte("<p></p>"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		for _, p := range paths {
			if filepath.Ext(p) == ".tmp" {
				t.Errorf("excluded file delivered: %s", p)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	if _, err := New(time.Millisecond, []string{"[unclosed"}, func([]string) {}); err == nil {
		t.Error("expected glob compile error")
	}
}
