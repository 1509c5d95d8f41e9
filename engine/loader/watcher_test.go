package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func nextEvent(t *testing.T, w *Watcher, path string) WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if ev.Path == path {
				return ev
			}
		case err := <-w.Errors:
			t.Logf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcherReloadsChangedAssets(t *testing.T) {
	dir := t.TempDir()
	path := writeCurve(t, dir, "glow.yaml", "glow", "4")

	l := NewLoader()
	if _, err := l.Load(path); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(l, 20*time.Millisecond, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeCurve(t, dir, "glow.yaml", "glow", "7")
	ev := nextEvent(t, w, path)
	if ev.Model == nil || peakOf(t, ev.Model) != 7 || l.Get("glow") != ev.Model {
		t.Fatalf("reload event = %+v", ev)
	}

	added := writeCurve(t, dir, "spark.yaml", "spark", "1")
	if ev := nextEvent(t, w, added); ev.Model == nil || ev.Model.Name() != "spark" {
		t.Fatalf("new asset event = %+v", ev)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ev := nextEvent(t, w, path); ev.Model != nil {
		t.Fatalf("removal event carried a model: %+v", ev)
	}
	if l.Get("glow") != nil {
		t.Fatal("removed asset still cached")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(NewLoader(), 10*time.Millisecond, dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-w.Events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatal("Events still open after Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(NewLoader(), 0, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("watching a missing directory succeeded")
	}
}
