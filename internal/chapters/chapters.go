// Package chapters holds the ordered, read-only list of tutorial chapters.
package chapters

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed chapters.yml
var defaultRegistry []byte

// ErrInvalidRegistry is returned when a chapter list violates the registry invariants.
var ErrInvalidRegistry = errors.New("invalid chapter registry")

// Chapter is a single lesson document addressable by a stable integer id.
type Chapter struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Filename string `yaml:"filename" json:"filename"`
	Glyph    string `yaml:"glyph" json:"glyph"`
}

// Fragment returns the address fragment (without '#') that selects this chapter.
func (c Chapter) Fragment() string {
	return strconv.Itoa(c.ID)
}

// registryFile is the on-disk YAML layout.
type registryFile struct {
	Chapters []Chapter `yaml:"chapters"`
}

// Registry is an ordered chapter list. It is never mutated after construction.
type Registry struct {
	chapters   []Chapter
	byID       map[int]int
	byFilename map[string]int
}

// NewRegistry validates chs and builds a Registry preserving their order.
func NewRegistry(chs []Chapter) (*Registry, error) {
	if len(chs) == 0 {
		return nil, fmt.Errorf("%w: no chapters", ErrInvalidRegistry)
	}

	r := &Registry{
		chapters:   make([]Chapter, len(chs)),
		byID:       make(map[int]int, len(chs)),
		byFilename: make(map[string]int, len(chs)),
	}
	copy(r.chapters, chs)

	for i, ch := range r.chapters {
		if ch.ID <= 0 {
			return nil, fmt.Errorf("%w: chapter %q has non-positive id %d", ErrInvalidRegistry, ch.Title, ch.ID)
		}
		if strings.TrimSpace(ch.Title) == "" {
			return nil, fmt.Errorf("%w: chapter %d has no title", ErrInvalidRegistry, ch.ID)
		}
		if strings.TrimSpace(ch.Filename) == "" {
			return nil, fmt.Errorf("%w: chapter %d has no filename", ErrInvalidRegistry, ch.ID)
		}
		if _, dup := r.byID[ch.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidRegistry, ch.ID)
		}
		if _, dup := r.byFilename[ch.Filename]; dup {
			return nil, fmt.Errorf("%w: duplicate filename %q", ErrInvalidRegistry, ch.Filename)
		}
		r.byID[ch.ID] = i
		r.byFilename[ch.Filename] = i
	}

	return r, nil
}

// Default returns the built-in tutorial registry.
func Default() *Registry {
	r, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("chapters: embedded registry: %v", err))
	}
	return r
}

// Load reads a YAML registry file from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chapter registry %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing chapter registry %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a YAML registry document.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	return NewRegistry(f.Chapters)
}

// All returns a copy of the chapters in registry order.
func (r *Registry) All() []Chapter {
	out := make([]Chapter, len(r.chapters))
	copy(out, r.chapters)
	return out
}

// Len returns the number of chapters.
func (r *Registry) Len() int { return len(r.chapters) }

// First returns the first chapter in registry order.
func (r *Registry) First() Chapter { return r.chapters[0] }

// Get looks up a chapter by id.
func (r *Registry) Get(id int) (Chapter, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Chapter{}, false
	}
	return r.chapters[i], true
}

// ByFilename looks up a chapter by its document filename.
func (r *Registry) ByFilename(name string) (Chapter, bool) {
	i, ok := r.byFilename[name]
	if !ok {
		return Chapter{}, false
	}
	return r.chapters[i], true
}

// Resolve maps an address fragment to a chapter, falling back to the first
// chapter when the fragment is absent, malformed or unknown.
func (r *Registry) Resolve(fragment string) Chapter {
	if id, ok := ParseFragment(fragment); ok {
		if ch, ok := r.Get(id); ok {
			return ch
		}
	}
	return r.First()
}

// ParseFragment parses an address fragment of the form "#<digits>" or
// "<digits>". Only ASCII decimal digits are accepted.
func ParseFragment(s string) (int, bool) {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}
