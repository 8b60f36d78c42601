// Package report owns the static dashboard page. The page is generated
// once and then left alone so manual tweaks survive later runs; all live
// data flows through data.js next to it.
package report

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed index.html
var page []byte

const PageName = "index.html"

// Ensure writes the dashboard page into dir if it does not exist yet.
// Returns whether the file was created by this call.
func Ensure(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	path := filepath.Join(dir, PageName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	return true, os.WriteFile(path, page, 0o644)
}
