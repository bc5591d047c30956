package chapters

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches chapter documents named by the tutorial convention
// (ordinal prefix, slug, .md extension).
const DefaultPattern = "tutorial-*.md"

// Discover lists files in fsys matching the doublestar pattern, sorted.
func Discover(fsys fs.FS, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discovering chapters with %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Orphans returns the files that no chapter in the registry refers to.
func (r *Registry) Orphans(files []string) []string {
	var out []string
	for _, f := range files {
		if _, ok := r.byFilename[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// Missing returns the chapters whose filename is not among files.
func (r *Registry) Missing(files []string) []Chapter {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	var out []Chapter
	for _, ch := range r.chapters {
		if !present[ch.Filename] {
			out = append(out, ch)
		}
	}
	return out
}
