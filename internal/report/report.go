// Package report packages a match result and a score outcome into the final analysis.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/hire-signal/internal/matcher"
	"github.com/spigell/hire-signal/internal/scoring"
	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

// namespace scopes report fingerprints.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spigell/hire-signal/report"))

// Meta is the set of inputs a report was computed from.
type Meta struct {
	TaxonomyVersion string
	Candidate       []skill.Skill
	Requirements    skill.RequirementSet
	Inputs          scoring.Inputs
	Weights         scoring.Weights
}

// Report is the complete, self-describing result of one analysis.
type Report struct {
	// Fingerprint is identical for identical inputs.
	Fingerprint     string `json:"fingerprint"`
	TaxonomyVersion string `json:"taxonomy_version"`

	Exact            []matcher.ExactMatch   `json:"exact"`
	Partial          []matcher.PartialMatch `json:"partial"`
	Missing          []skill.Requirement    `json:"missing"`
	MissingPreferred []skill.Requirement    `json:"missing_preferred"`
	Uncategorized    []skill.Skill          `json:"uncategorized,omitempty"`
	Coverage         []matcher.Coverage     `json:"coverage"`

	SubScores  scoring.SubScores           `json:"sub_scores"`
	Weights    scoring.Weights             `json:"weights"`
	Overall    int                         `json:"overall"`
	Tier       scoring.Tier                `json:"tier"`
	Thresholds scoring.Thresholds          `json:"thresholds"`
	Confidence scoring.Confidence          `json:"confidence"`
	Summary    string                      `json:"summary"`
	Risks      []scoring.Flag              `json:"risks,omitempty"`
	Strengths  []scoring.Flag              `json:"strengths,omitempty"`
	Warnings   []scoring.OutOfRangeWarning `json:"warnings,omitempty"`

	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// Assemble copies result and outcome into a Report, ordering every list by category
// and then by skill name. It does not modify its arguments.
func Assemble(result *matcher.Result, outcome scoring.Outcome, meta Meta) *Report {
	r := &Report{
		Fingerprint:      Fingerprint(meta),
		TaxonomyVersion:  meta.TaxonomyVersion,
		Exact:            slices.Clone(result.Exact),
		Partial:          slices.Clone(result.Partial),
		Missing:          slices.Clone(result.Missing),
		MissingPreferred: slices.Clone(result.MissingPreferred),
		Uncategorized:    slices.Clone(result.Uncategorized),
		Coverage:         result.CategoryCoverage(),
		SubScores:        outcome.SubScores,
		Weights:          meta.Weights,
		Overall:          outcome.Overall,
		Tier:             outcome.Tier,
		Thresholds:       outcome.Thresholds,
		Confidence:       outcome.Confidence,
		Summary:          summaries[outcome.Tier],
		Risks:            slices.Clone(outcome.Risks),
		Strengths:        slices.Clone(outcome.Strengths),
		Warnings:         slices.Clone(outcome.Warnings),
	}

	slices.SortStableFunc(r.Exact, func(a, b matcher.ExactMatch) int {
		return compareRequirement(a.Requirement, b.Requirement)
	})
	slices.SortStableFunc(r.Partial, func(a, b matcher.PartialMatch) int {
		return compareRequirement(a.Requirement, b.Requirement)
	})
	slices.SortStableFunc(r.Missing, compareRequirement)
	slices.SortStableFunc(r.MissingPreferred, compareRequirement)
	slices.SortStableFunc(r.Uncategorized, func(a, b skill.Skill) int { return cmp.Compare(a.Raw, b.Raw) })

	r.Recommendations = Recommendations(r.Gaps())

	return r
}

var summaries = map[scoring.Tier]string{
	scoring.TierStrongHire: "Candidate demonstrates strong alignment with role requirements",
	scoring.TierHire:       "Candidate meets most requirements with some areas for development",
	scoring.TierMaybe:      "Candidate shows potential but has significant gaps",
	scoring.TierNoHire:     "Candidate does not meet minimum requirements",
}

func compareRequirement(a, b skill.Requirement) int {
	return compareSkill(a.Skill, b.Skill)
}

func compareSkill(a, b skill.Skill) int {
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	return cmp.Compare(a.Name(), b.Name())
}

// Fingerprint derives a name-based UUID from the canonical form of the inputs.
// Candidate skills are order-insensitive; requirement order is kept.
func Fingerprint(meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "taxonomy=%q\n", meta.TaxonomyVersion)

	candidate := slices.Clone(meta.Candidate)
	slices.SortFunc(candidate, func(a, b skill.Skill) int {
		if c := compareSkill(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Raw, b.Raw)
	})
	for _, s := range candidate {
		fmt.Fprintf(&b, "candidate=%q|%q|%q|%s\n", s.Raw, s.Canonical, s.Category, s.Depth)
	}

	for _, r := range meta.Requirements {
		fmt.Fprintf(&b, "requirement=%q|%q|%q|%s|%t|%t\n", r.Skill.Raw, r.Skill.Canonical, r.Skill.Category, r.Skill.Depth, r.Required, r.Senior)
	}

	in := meta.Inputs
	fmt.Fprintf(&b, "inputs=%g|%g|%g|%g\n", in.Experience, in.Education, in.Achievements, in.CulturalFit)

	w := meta.Weights
	fmt.Fprintf(&b, "weights=%g|%g|%g|%g|%g\n", w.Skills, w.Experience, w.Education, w.Achievements, w.CulturalFit)

	return uuid.NewSHA1(namespace, []byte(b.String())).String()
}

// Gap is a requirement the candidate does not fully meet.
type Gap struct {
	Skill    string            `json:"skill"`
	Category taxonomy.Category `json:"category,omitempty"`
	Required bool              `json:"required"`
	// Closest is the candidate skill that partially covers the gap, if any.
	Closest string `json:"closest,omitempty"`
}

// Gaps lists missing requirements first, then partial matches.
func (r *Report) Gaps() []Gap {
	gaps := make([]Gap, 0, len(r.Missing)+len(r.MissingPreferred)+len(r.Partial))
	for _, req := range slices.Concat(r.Missing, r.MissingPreferred) {
		gaps = append(gaps, Gap{Skill: req.Skill.Name(), Category: req.Skill.Category, Required: req.Required})
	}
	for _, m := range r.Partial {
		gaps = append(gaps, Gap{
			Skill:    m.Requirement.Skill.Name(),
			Category: m.Category,
			Required: m.Requirement.Required,
			Closest:  m.Candidate.Name(),
		})
	}
	return gaps
}

// ByCategory groups every requirement line of the report by category for display.
// Requirements the taxonomy does not know are grouped under "uncategorized".
func (r *Report) ByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	key := func(c taxonomy.Category) string {
		if c == "" {
			return "uncategorized"
		}
		return string(c)
	}

	for _, m := range r.Exact {
		status := "exact"
		if m.Shallow {
			status = "shallow"
		}
		k := key(m.Requirement.Skill.Category)
		report[k] = append(report[k], map[string]string{
			"skill":     m.Requirement.Skill.Name(),
			"status":    status,
			"required":  fmt.Sprintf("%t", m.Requirement.Required),
			"candidate": m.Candidate.Raw,
			"depth":     m.Candidate.Depth.String(),
		})
	}
	for _, m := range r.Partial {
		k := key(m.Category)
		report[k] = append(report[k], map[string]string{
			"skill":     m.Requirement.Skill.Name(),
			"status":    "partial",
			"required":  fmt.Sprintf("%t", m.Requirement.Required),
			"candidate": m.Candidate.Raw,
			"depth":     m.Candidate.Depth.String(),
		})
	}
	for _, req := range slices.Concat(r.Missing, r.MissingPreferred) {
		k := key(req.Skill.Category)
		report[k] = append(report[k], map[string]string{
			"skill":    req.Skill.Name(),
			"status":   "missing",
			"required": fmt.Sprintf("%t", req.Required),
		})
	}

	return report
}
