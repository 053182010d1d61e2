package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	out "ttrack/internal/modules/reminder/adapter/out"
)

func writeManifests(t *testing.T, dataDir, payload string) {
	t.Helper()
	dir := filepath.Join(dataDir, "notifiers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notifiers.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}
}

func TestLoadMissingManifestFileYieldsEmptyList(t *testing.T) {
	t.Parallel()
	store := out.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("got %d manifests, want 0", len(manifests))
	}
}

func TestLoadResolvesRelativeBinaryPaths(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	writeManifests(t, dataDir, `[
  {"name": "desktop", "version": "1.0.0", "binary": "bin/notifier-desktop", "enabled": true},
  {"name": "remote", "version": "0.2.0", "binary": "/opt/notifiers/remote", "enabled": false}
]`)

	store := out.NewFileManifestStore(dataDir)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("got %d manifests, want 2", len(manifests))
	}
	if want := filepath.Join(dataDir, "bin", "notifier-desktop"); manifests[0].Binary != want {
		t.Fatalf("binary = %s, want %s", manifests[0].Binary, want)
	}
	if manifests[1].Binary != "/opt/notifiers/remote" {
		t.Fatalf("absolute binary must stay untouched, got %s", manifests[1].Binary)
	}
	if !manifests[0].Enabled || manifests[1].Enabled {
		t.Fatalf("enabled flags lost: %+v", manifests)
	}
}

func TestLoadRejectsUnknownManifestFields(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	writeManifests(t, dataDir, `[{"name": "x", "binary": "x", "checksum": "abc"}]`)

	store := out.NewFileManifestStore(dataDir)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("unknown field must be rejected")
	}
}
