// Package matcher classifies every requirement of a job description against a candidate's skills.
package matcher

import (
	"cmp"
	"slices"

	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

// ExactMatch is a requirement the candidate lists under the same canonical name.
// Shallow is set when a senior requirement is met only at beginner depth.
type ExactMatch struct {
	Requirement skill.Requirement `json:"requirement"`
	Candidate   skill.Skill       `json:"candidate"`
	Shallow     bool              `json:"shallow,omitempty"`
}

// PartialMatch is a requirement covered by a different skill of the same category.
type PartialMatch struct {
	Requirement skill.Requirement `json:"requirement"`
	Candidate   skill.Skill       `json:"candidate"`
	Category    taxonomy.Category `json:"category"`
}

// Result holds the classification of every requirement. Each requirement lands in
// exactly one of Exact, Partial, Missing or MissingPreferred.
type Result struct {
	Exact            []ExactMatch        `json:"exact"`
	Partial          []PartialMatch      `json:"partial"`
	Missing          []skill.Requirement `json:"missing"`
	MissingPreferred []skill.Requirement `json:"missing_preferred"`
	// Uncategorized lists candidate skills the taxonomy does not know. Informational only.
	Uncategorized []skill.Skill `json:"uncategorized,omitempty"`
}

// Counts is a size summary of a Result.
type Counts struct {
	Exact            int `json:"exact"`
	Shallow          int `json:"shallow"`
	Partial          int `json:"partial"`
	Missing          int `json:"missing"`
	MissingPreferred int `json:"missing_preferred"`
}

// Total returns the number of classified requirements.
func (c Counts) Total() int {
	return c.Exact + c.Partial + c.Missing + c.MissingPreferred
}

func (r *Result) Counts() Counts {
	c := Counts{
		Exact:            len(r.Exact),
		Partial:          len(r.Partial),
		Missing:          len(r.Missing),
		MissingPreferred: len(r.MissingPreferred),
	}
	for _, m := range r.Exact {
		if m.Shallow {
			c.Shallow++
		}
	}
	return c
}

// Coverage is the share of requirements of one category met by the candidate.
type Coverage struct {
	Category taxonomy.Category `json:"category"`
	Total    int               `json:"total"`
	Exact    int               `json:"exact"`
	Partial  int               `json:"partial"`
	// Percent counts a partial match as half covered.
	Percent float64 `json:"percent"`
}

// CategoryCoverage reports coverage per requirement category, sorted by category.
// Requirements the taxonomy does not know are grouped under an empty category.
func (r *Result) CategoryCoverage() []Coverage {
	byCategory := map[taxonomy.Category]*Coverage{}
	get := func(c taxonomy.Category) *Coverage {
		cov, ok := byCategory[c]
		if !ok {
			cov = &Coverage{Category: c}
			byCategory[c] = cov
		}
		return cov
	}

	for _, m := range r.Exact {
		cov := get(m.Requirement.Skill.Category)
		cov.Total++
		cov.Exact++
	}
	for _, m := range r.Partial {
		cov := get(m.Requirement.Skill.Category)
		cov.Total++
		cov.Partial++
	}
	for _, req := range slices.Concat(r.Missing, r.MissingPreferred) {
		get(req.Skill.Category).Total++
	}

	out := make([]Coverage, 0, len(byCategory))
	for _, cov := range byCategory {
		cov.Percent = 100 * (float64(cov.Exact) + 0.5*float64(cov.Partial)) / float64(cov.Total)
		out = append(out, *cov)
	}
	slices.SortFunc(out, func(a, b Coverage) int { return cmp.Compare(a.Category, b.Category) })

	return out
}

// Match classifies reqs against candidate.
//
// Exact matches are not consumed: one candidate skill satisfies every requirement naming
// it, and duplicate requirement lines are matched independently. Partial credit comes
// only from candidate skills that no requirement names, so a skill already counted as an
// exact match is never reused as transferable evidence for a sibling requirement.
// The result depends only on the inputs.
func Match(candidate []skill.Skill, reqs skill.RequirementSet) Result {
	var result Result

	known := map[string]skill.Skill{}
	for _, s := range candidate {
		if !s.Known() {
			result.Uncategorized = append(result.Uncategorized, s)
			continue
		}
		if prev, ok := known[s.Canonical]; ok && prev.Depth >= s.Depth {
			continue
		}
		known[s.Canonical] = s
	}

	requested := map[string]struct{}{}
	for _, req := range reqs {
		if req.Skill.Known() {
			requested[req.Skill.Canonical] = struct{}{}
		}
	}

	spare := map[taxonomy.Category][]skill.Skill{}
	for name, s := range known {
		if _, ok := requested[name]; ok {
			continue
		}
		spare[s.Category] = append(spare[s.Category], s)
	}
	for category := range spare {
		slices.SortFunc(spare[category], preferCandidate)
	}

	for _, req := range reqs {
		if !req.Skill.Known() {
			result.addMissing(req)
			continue
		}

		if s, ok := known[req.Skill.Canonical]; ok {
			result.Exact = append(result.Exact, ExactMatch{
				Requirement: req,
				Candidate:   s,
				Shallow:     req.Senior && s.Depth == skill.DepthBeginner,
			})
			continue
		}

		if peers := spare[req.Skill.Category]; len(peers) > 0 {
			result.Partial = append(result.Partial, PartialMatch{
				Requirement: req,
				Candidate:   peers[0],
				Category:    req.Skill.Category,
			})
			continue
		}

		result.addMissing(req)
	}

	return result
}

func (r *Result) addMissing(req skill.Requirement) {
	if req.Required {
		r.Missing = append(r.Missing, req)
		return
	}
	r.MissingPreferred = append(r.MissingPreferred, req)
}

// preferCandidate orders by depth descending, then canonical name ascending.
func preferCandidate(a, b skill.Skill) int {
	if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
		return c
	}
	return cmp.Compare(a.Canonical, b.Canonical)
}
