package summary

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// fileName is the cached summary's file name under the workspace's
// `summary/` state directory (spec.md §6).
const fileName = "summary.json"

// Save persists a Summary to dir (the workspace's `summary/` directory),
// creating it if necessary. Write failures are the caller's concern to log
// and tolerate, per spec.md §4.9's non-fatal persistence policy.
func Save(dir string, s Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, fileName+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, fileName))
}

// Load reads a previously cached Summary. A missing file is not an error:
// it returns the zero Summary and ok=false.
func Load(dir string) (s Summary, ok bool) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return Summary{}, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, false
	}
	return s, true
}
