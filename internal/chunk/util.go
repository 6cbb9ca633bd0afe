package chunk

import "path/filepath"

// relativePath returns absPath relative to root, falling back to absPath if
// it isn't actually inside root (shouldn't happen for indexed files, but the
// chunker never touches the filesystem to verify).
func relativePath(root, absPath string) string {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(rel)
}
