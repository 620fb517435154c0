// Package normalize maps free-text skill tokens onto taxonomy entries.
package normalize

import (
	"strings"

	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

// maxSpan bounds the number of tokens tried as a single skill name.
const maxSpan = 6

// Normalizer resolves raw skill text. It holds only read-only state and is safe for concurrent use.
type Normalizer struct {
	taxonomy *taxonomy.Taxonomy
	depth    DepthClassifier
}

// New returns a Normalizer. A nil classifier selects the default keyword table.
func New(tax *taxonomy.Taxonomy, classifier DepthClassifier) *Normalizer {
	if classifier == nil {
		classifier = NewKeywordClassifier(nil)
	}
	return &Normalizer{taxonomy: tax, depth: classifier}
}

// Normalize resolves each raw token. Blank tokens are dropped; unknown tokens are kept as literals.
func (n *Normalizer) Normalize(raw []string) []skill.Skill {
	out := make([]skill.Skill, 0, len(raw))
	for _, text := range raw {
		if s, ok := n.One(text); ok {
			out = append(out, s)
		}
	}
	return out
}

// Requirements normalizes job description lines.
// A requirement whose qualifiers classify as expert is marked Senior.
func (n *Normalizer) Requirements(raw []skill.RawRequirement) skill.RequirementSet {
	out := make(skill.RequirementSet, 0, len(raw))
	for _, r := range raw {
		s, ok := n.One(r.Text)
		if !ok {
			continue
		}
		out = append(out, skill.Requirement{
			Skill:    s,
			Required: r.Required,
			Senior:   s.Depth == skill.DepthExpert,
		})
	}
	return out
}

// One resolves a single raw token. It returns false for blank input.
//
// The longest run of tokens naming a taxonomy entry is taken as the skill; the words
// around it are handed to the depth classifier. Without a match the whole text is context.
func (n *Normalizer) One(raw string) (skill.Skill, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return skill.Skill{}, false
	}

	result := skill.Skill{Raw: raw}

	tokens := n.tokenize(raw)
	entry, start, end := n.longestMatch(tokens)
	if entry == nil {
		result.Depth = n.depth.Classify(raw)
		return result, true
	}

	context := make([]string, 0, len(tokens)-(end-start))
	context = append(context, tokens[:start]...)
	context = append(context, tokens[end:]...)

	result.Canonical = entry.Canonical
	result.Category = entry.Category
	result.Depth = n.depth.Classify(strings.Join(context, " "))

	return result, true
}

// tokenize splits raw into lookup tokens. A token naming a taxonomy entry, such as
// ".net" or "ci/cd", is kept whole; any other token loses its edge punctuation and
// "python/django" splits into its parts.
func (n *Normalizer) tokenize(raw string) []string {
	tokens := fields(raw)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if n.known(token) {
			out = append(out, token)
			continue
		}

		token = strings.Trim(token, edgePunct)
		if token == "" {
			continue
		}
		if n.known(token) || !strings.Contains(token, "/") {
			out = append(out, token)
			continue
		}

		for _, part := range strings.Split(token, "/") {
			if part = strings.Trim(part, edgePunct); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (n *Normalizer) known(token string) bool {
	_, ok := n.taxonomy.Lookup(token)
	return ok
}

func (n *Normalizer) longestMatch(tokens []string) (*taxonomy.Entry, int, int) {
	if n.taxonomy == nil || len(tokens) == 0 {
		return nil, 0, 0
	}

	span := min(len(tokens), maxSpan)
	for size := span; size > 0; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			if entry, ok := n.taxonomy.Lookup(strings.Join(tokens[start:start+size], " ")); ok {
				return entry, start, start + size
			}
		}
	}

	return nil, 0, 0
}
