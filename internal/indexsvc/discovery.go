package indexsvc

import (
	"os"
	"path/filepath"
	"strings"
)

// walkWorkspace returns every included file under root in a deterministic,
// sorted-by-directory-entry order (os.ReadDir already sorts by name), per
// spec.md §8's "deterministic iteration order over the filesystem" and
// §4.9 step 1: skip ignored/dot directories, include only allow-listed
// extensions.
func walkWorkspace(root string, ignoredDirs, includedExts []string) ([]string, error) {
	ignored := make(map[string]bool, len(ignoredDirs))
	for _, d := range ignoredDirs {
		ignored[d] = true
	}
	exts := make(map[string]bool, len(includedExts))
	for _, e := range includedExts {
		exts[e] = true
	}

	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return &IOError{Path: dir, Err: err}
		}
		for _, entry := range entries {
			name := entry.Name()
			full := filepath.Join(dir, name)
			if entry.IsDir() {
				if strings.HasPrefix(name, ".") || ignored[name] {
					continue
				}
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if exts[filepath.Ext(name)] {
				out = append(out, full)
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}
