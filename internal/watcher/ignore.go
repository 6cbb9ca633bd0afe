package watcher

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultIgnoredDirs is the fixed list of spec.md §4.8.
var defaultIgnoredDirs = []string{"node_modules", ".git", "dist", "build"}

// defaultIgnoredFilePatterns is the fixed file-glob list of spec.md §4.8.
var defaultIgnoredFilePatterns = []string{"*.tmp", "*.temp"}

// ignorePredicate composes the fixed ignore list, the workspace state
// directory, and any user-supplied patterns into a single matcher, per
// spec.md §4.8.
type ignorePredicate struct {
	dirs         map[string]bool
	stateDirName string
	globs        []glob.Glob
}

func newIgnorePredicate(stateDirName string, userPatterns []string) *ignorePredicate {
	dirs := make(map[string]bool, len(defaultIgnoredDirs))
	for _, d := range defaultIgnoredDirs {
		dirs[d] = true
	}

	var globs []glob.Glob
	for _, pattern := range append(append([]string{}, defaultIgnoredFilePatterns...), userPatterns...) {
		if g, err := glob.Compile(pattern); err == nil {
			globs = append(globs, g)
		}
	}

	return &ignorePredicate{dirs: dirs, stateDirName: stateDirName, globs: globs}
}

// ShouldIgnoreDir reports whether a directory (by base name) should never be
// descended into or watched.
func (p *ignorePredicate) ShouldIgnoreDir(name string) bool {
	if name == p.stateDirName || strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return p.dirs[name]
}

// ShouldIgnoreFile reports whether a changed file's path should be
// suppressed at source.
func (p *ignorePredicate) ShouldIgnoreFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range p.globs {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}
	for dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if p.ShouldIgnoreDir(filepath.Base(dir)) {
			return true
		}
	}
	return false
}
