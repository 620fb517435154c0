package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const (
	CategoryLanguage     Category = "language"
	CategoryWebFramework Category = "web_framework"
	CategoryDatabase     Category = "database"
	CategoryCloud        Category = "cloud"
	CategoryDevOps       Category = "devops"
	CategoryDataScience  Category = "data_science"
	CategoryPractice     Category = "practice"
	CategorySoftSkill    Category = "soft_skill"
)

// Category groups related skills. Skills of one category are treated as transferable.
type Category string

// Entry is a canonical skill with its category and known aliases.
type Entry struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Category  Category `yaml:"category" json:"category"`
	Aliases   []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Conflict records an alias claimed by more than one entry.
// Winner is the canonical name the alias resolves to.
type Conflict struct {
	Alias  string
	Winner string
	Loser  string
}

// Taxonomy is an immutable, ordered set of skill entries.
// It is safe for concurrent use once built.
type Taxonomy struct {
	version   string
	entries   []Entry
	index     map[string]int
	conflicts []Conflict
}

// Key returns the lookup key for raw text: case folded, trimmed and with
// internal whitespace collapsed to single spaces.
func Key(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(strings.Join(fields, " "))
}

// New builds a taxonomy from entries in registration order.
// Canonical names always win over aliases; among aliases the first registered entry wins.
func New(version string, entries []Entry) (*Taxonomy, error) {
	t := &Taxonomy{
		version: strings.TrimSpace(version),
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)*3),
	}

	for i, e := range entries {
		canonical := strings.Join(strings.Fields(e.Canonical), " ")
		if canonical == "" {
			return nil, fmt.Errorf("entry %d: canonical name is required", i)
		}
		if strings.TrimSpace(string(e.Category)) == "" {
			return nil, fmt.Errorf("entry %q: category is required", canonical)
		}

		key := Key(canonical)
		if prev, ok := t.index[key]; ok {
			return nil, fmt.Errorf("entry %q: duplicate canonical name (first registered as %q)", canonical, t.entries[prev].Canonical)
		}

		aliases := make([]string, 0, len(e.Aliases))
		for _, alias := range e.Aliases {
			if alias = strings.Join(strings.Fields(alias), " "); alias != "" {
				aliases = append(aliases, alias)
			}
		}

		t.index[key] = len(t.entries)
		t.entries = append(t.entries, Entry{
			Canonical: canonical,
			Category:  Category(Key(string(e.Category))),
			Aliases:   aliases,
		})
	}

	for i, e := range t.entries {
		for _, alias := range e.Aliases {
			key := Key(alias)
			owner, taken := t.index[key]
			if !taken {
				t.index[key] = i
				continue
			}
			if owner == i {
				continue
			}
			t.conflicts = append(t.conflicts, Conflict{
				Alias:  alias,
				Winner: t.entries[owner].Canonical,
				Loser:  e.Canonical,
			})
		}
	}

	return t, nil
}

// Lookup resolves raw text against canonical names and aliases.
func (t *Taxonomy) Lookup(raw string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	idx, ok := t.index[Key(raw)]
	if !ok {
		return nil, false
	}
	entry := t.entries[idx]
	entry.Aliases = append([]string(nil), entry.Aliases...)
	return &entry, true
}

// Version returns the version string of the loaded resource.
func (t *Taxonomy) Version() string {
	if t == nil {
		return ""
	}
	return t.version
}

// Len returns the number of entries.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in registration order.
func (t *Taxonomy) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Aliases = append([]string(nil), e.Aliases...)
		out[i] = e
	}
	return out
}

// Conflicts returns aliases shadowed by an earlier entry or by a canonical name.
func (t *Taxonomy) Conflicts() []Conflict {
	if t == nil {
		return nil
	}
	return append([]Conflict(nil), t.conflicts...)
}

// Categories returns the distinct categories, sorted.
func (t *Taxonomy) Categories() []Category {
	if t == nil {
		return nil
	}
	seen := make(map[Category]struct{})
	out := make([]Category, 0)
	for _, e := range t.entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var errEmptyTaxonomy = errors.New("taxonomy has no entries")
