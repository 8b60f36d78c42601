package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsure_WritesOnceNeverOverwrites(t *testing.T) {
	dir := t.TempDir()

	created, err := Ensure(dir)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !created {
		t.Fatalf("first call should create the page")
	}

	path := filepath.Join(dir, PageName)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(raw), "spaceStatusData") {
		t.Fatalf("page must reference the data.js payload")
	}

	// a hand-edited page survives later runs
	if err := os.WriteFile(path, []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = Ensure(dir)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if created {
		t.Fatalf("second call must not recreate the page")
	}
	raw, _ = os.ReadFile(path)
	if string(raw) != "edited" {
		t.Fatalf("Ensure overwrote an existing page")
	}
}

func TestEnsure_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	if _, err := Ensure(dir); err != nil {
		t.Fatalf("Ensure with missing dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, PageName)); err != nil {
		t.Fatalf("page missing: %v", err)
	}
}
