package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

func known(name string, category taxonomy.Category, depth skill.Depth) skill.Skill {
	return skill.Skill{Raw: name, Canonical: name, Category: category, Depth: depth}
}

func req(s skill.Skill, required bool) skill.Requirement {
	return skill.Requirement{Skill: s, Required: required, Senior: s.Depth == skill.DepthExpert}
}

var (
	python     = known("Python", taxonomy.CategoryLanguage, skill.DepthUnknown)
	rust       = known("Rust", taxonomy.CategoryLanguage, skill.DepthUnknown)
	java       = known("Java", taxonomy.CategoryLanguage, skill.DepthUnknown)
	docker     = known("Docker", taxonomy.CategoryDevOps, skill.DepthUnknown)
	kubernetes = known("Kubernetes", taxonomy.CategoryDevOps, skill.DepthUnknown)
	aws        = known("AWS", taxonomy.CategoryCloud, skill.DepthUnknown)
	gcp        = known("GCP", taxonomy.CategoryCloud, skill.DepthUnknown)
)

func TestMatchClassifiesEveryRequirementOnce(t *testing.T) {
	candidate := []skill.Skill{python, rust, docker}
	reqs := skill.RequirementSet{
		req(python, true),
		req(java, true),
		req(kubernetes, false),
		req(aws, true),
		req(gcp, false),
	}

	result := Match(candidate, reqs)

	require.Len(t, result.Exact, 1)
	assert.Equal(t, "Python", result.Exact[0].Requirement.Skill.Canonical)
	assert.False(t, result.Exact[0].Shallow)

	require.Len(t, result.Partial, 2)
	assert.Equal(t, "Java", result.Partial[0].Requirement.Skill.Canonical)
	assert.Equal(t, "Rust", result.Partial[0].Candidate.Canonical)
	assert.Equal(t, taxonomy.CategoryLanguage, result.Partial[0].Category)
	assert.Equal(t, "Kubernetes", result.Partial[1].Requirement.Skill.Canonical)
	assert.Equal(t, "Docker", result.Partial[1].Candidate.Canonical)

	require.Len(t, result.Missing, 1)
	assert.Equal(t, "AWS", result.Missing[0].Skill.Canonical)
	require.Len(t, result.MissingPreferred, 1)
	assert.Equal(t, "GCP", result.MissingPreferred[0].Skill.Canonical)

	counts := result.Counts()
	assert.Equal(t, len(reqs), counts.Total())
}

func TestMatchScenario(t *testing.T) {
	sql := known("SQL", taxonomy.CategoryLanguage, skill.DepthUnknown)
	expertPython := known("Python", taxonomy.CategoryLanguage, skill.DepthExpert)

	result := Match(
		[]skill.Skill{expertPython, sql},
		skill.RequirementSet{req(python, true), req(java, true), req(sql, false)},
	)

	require.Len(t, result.Exact, 2)
	assert.Equal(t, "Python", result.Exact[0].Requirement.Skill.Canonical)
	assert.Equal(t, skill.DepthExpert, result.Exact[0].Candidate.Depth)
	assert.Equal(t, "SQL", result.Exact[1].Requirement.Skill.Canonical)

	require.Len(t, result.Missing, 1)
	assert.Equal(t, "Java", result.Missing[0].Skill.Canonical)
	assert.Empty(t, result.Partial, "skills already matched exactly are not transferable evidence")
	assert.Empty(t, result.MissingPreferred)
}

func TestMatchWithoutPeersIsMissing(t *testing.T) {
	frontend := known("React", taxonomy.CategoryWebFramework, skill.DepthUnknown)

	result := Match([]skill.Skill{python, rust}, skill.RequirementSet{req(frontend, true)})

	require.Len(t, result.Missing, 1)
	assert.Equal(t, "React", result.Missing[0].Skill.Canonical)
	assert.Empty(t, result.Partial)
}

func TestMatchUnknownSkills(t *testing.T) {
	literal := skill.Skill{Raw: "Quantum Basket Weaving"}

	result := Match(
		[]skill.Skill{literal, python},
		skill.RequirementSet{req(literal, true), req(skill.Skill{Raw: "Underwater Welding"}, false)},
	)

	assert.Empty(t, result.Exact, "unknown literals never match each other")
	assert.Empty(t, result.Partial)
	require.Len(t, result.Missing, 1)
	require.Len(t, result.MissingPreferred, 1)
	require.Len(t, result.Uncategorized, 1)
	assert.Equal(t, "Quantum Basket Weaving", result.Uncategorized[0].Raw)
}

func TestMatchDuplicateCandidatesKeepDeepest(t *testing.T) {
	result := Match(
		[]skill.Skill{
			known("Go", taxonomy.CategoryLanguage, skill.DepthBeginner),
			known("Go", taxonomy.CategoryLanguage, skill.DepthExpert),
			known("Go", taxonomy.CategoryLanguage, skill.DepthIntermediate),
		},
		skill.RequirementSet{req(known("Go", taxonomy.CategoryLanguage, skill.DepthExpert), true)},
	)

	require.Len(t, result.Exact, 1)
	assert.Equal(t, skill.DepthExpert, result.Exact[0].Candidate.Depth)
	assert.False(t, result.Exact[0].Shallow)
}

func TestMatchShallowSeniorRequirement(t *testing.T) {
	result := Match(
		[]skill.Skill{known("Go", taxonomy.CategoryLanguage, skill.DepthBeginner)},
		skill.RequirementSet{
			req(known("Go", taxonomy.CategoryLanguage, skill.DepthExpert), true),
			req(known("Go", taxonomy.CategoryLanguage, skill.DepthUnknown), true),
		},
	)

	require.Len(t, result.Exact, 2)
	assert.True(t, result.Exact[0].Shallow)
	assert.False(t, result.Exact[1].Shallow, "non-senior requirement is never shallow")
	assert.Equal(t, 1, result.Counts().Shallow)
}

func TestMatchPartialCandidateIsDeterministic(t *testing.T) {
	candidates := []skill.Skill{
		known("Ruby", taxonomy.CategoryLanguage, skill.DepthIntermediate),
		known("Rust", taxonomy.CategoryLanguage, skill.DepthExpert),
		known("C", taxonomy.CategoryLanguage, skill.DepthExpert),
	}
	reqs := skill.RequirementSet{req(java, true)}

	first := Match(candidates, reqs)
	require.Len(t, first.Partial, 1)
	assert.Equal(t, "C", first.Partial[0].Candidate.Canonical)

	reversed := []skill.Skill{candidates[2], candidates[1], candidates[0]}
	second := Match(reversed, reqs)
	assert.Equal(t, first.Partial, second.Partial)
}

func TestMatchDoesNotConsumeCandidates(t *testing.T) {
	result := Match(
		[]skill.Skill{python, rust},
		skill.RequirementSet{req(python, true), req(python, false), req(java, true), req(java, false)},
	)

	assert.Len(t, result.Exact, 2)
	require.Len(t, result.Partial, 2)
	assert.Equal(t, "Rust", result.Partial[0].Candidate.Canonical)
	assert.Equal(t, "Rust", result.Partial[1].Candidate.Canonical)
}

func TestCategoryCoverage(t *testing.T) {
	result := Match(
		[]skill.Skill{python, rust, docker},
		skill.RequirementSet{req(python, true), req(java, true), req(docker, true), req(aws, false)},
	)

	coverage := result.CategoryCoverage()
	require.Len(t, coverage, 3)

	assert.Equal(t, taxonomy.CategoryCloud, coverage[0].Category)
	assert.Equal(t, 0.0, coverage[0].Percent)

	assert.Equal(t, taxonomy.CategoryDevOps, coverage[1].Category)
	assert.Equal(t, 100.0, coverage[1].Percent)

	assert.Equal(t, taxonomy.CategoryLanguage, coverage[2].Category)
	assert.Equal(t, 2, coverage[2].Total)
	assert.Equal(t, 75.0, coverage[2].Percent)
}
