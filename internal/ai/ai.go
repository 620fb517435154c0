// Package ai defines the text-generation collaborators that surround the scoring core.
// Nothing in the core imports this package.
package ai

import (
	"context"

	"github.com/spigell/hire-signal/internal/analyzer"
	"github.com/spigell/hire-signal/internal/report"
	"github.com/spigell/hire-signal/internal/scoring"
	"github.com/spigell/hire-signal/internal/skill"
)

// Extraction is the structured view of a resume and a job description.
type Extraction struct {
	CandidateSkills []string               `json:"candidate_skills"`
	Requirements    []skill.RawRequirement `json:"requirements"`
	SubScores       scoring.Inputs         `json:"sub_scores"`
	Notes           string                 `json:"notes,omitempty"`
	Raw             string                 `json:"-"`
}

// Input converts the extraction into an analyzer document. Weights are left to the analyzer.
func (e *Extraction) Input() analyzer.RawInput {
	return analyzer.RawInput{
		CandidateSkills: e.CandidateSkills,
		Requirements:    e.Requirements,
		SubScores:       e.SubScores,
	}
}

// Question is a generated interview question aimed at one gap.
type Question struct {
	Skill    string `json:"skill"`
	Question string `json:"question"`
	Purpose  string `json:"purpose,omitempty"`
}

type Extractor interface {
	Extract(ctx context.Context, resume, jobDescription string) (*Extraction, error)
}

type Interviewer interface {
	Questions(ctx context.Context, gaps []report.Gap) ([]Question, error)
}
