// Package analyzer wires the normalizer, matcher, scoring engine and report assembler
// into a single entry point.
package analyzer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/logger"
	"github.com/spigell/hire-signal/internal/matcher"
	"github.com/spigell/hire-signal/internal/normalize"
	"github.com/spigell/hire-signal/internal/report"
	"github.com/spigell/hire-signal/internal/scoring"
	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

// Input is an analysis request over already normalized skills.
// Nil Thresholds select the engine's threshold source.
type Input struct {
	Candidate    []skill.Skill
	Requirements skill.RequirementSet
	Inputs       scoring.Inputs
	Weights      scoring.Weights
	Thresholds   *scoring.Thresholds
}

// RawInput is an analysis request as read from an input document.
// Nil Weights select the analyzer defaults and nil Thresholds the engine's source.
type RawInput struct {
	CandidateSkills []string               `json:"candidate_skills" mapstructure:"candidate_skills"`
	Requirements    []skill.RawRequirement `json:"requirements" mapstructure:"requirements"`
	SubScores       scoring.Inputs         `json:"sub_scores" mapstructure:"sub_scores"`
	Weights         *scoring.Weights       `json:"weights,omitempty" mapstructure:"weights"`
	Thresholds      *scoring.Thresholds    `json:"thresholds,omitempty" mapstructure:"thresholds"`
}

// Deps configures an Analyzer. Only Taxonomy is mandatory.
type Deps struct {
	Taxonomy   *taxonomy.Taxonomy
	Engine     *scoring.Engine
	Classifier normalize.DepthClassifier
	// Weights are used by AnalyzeRaw when the document carries none. Zero selects scoring.DefaultWeights.
	Weights scoring.Weights
	Logger  *zap.Logger
}

// Analyzer holds only state that is immutable after New, so concurrent calls are safe.
type Analyzer struct {
	taxonomy   *taxonomy.Taxonomy
	normalizer *normalize.Normalizer
	engine     *scoring.Engine
	weights    scoring.Weights
	logger     *zap.Logger
}

func New(deps Deps) (*Analyzer, error) {
	if deps.Taxonomy == nil {
		return nil, errors.New("analyzer: taxonomy is required")
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := deps.Engine
	if engine == nil {
		var err error
		engine, err = scoring.New(scoring.DefaultParams(), nil, log)
		if err != nil {
			return nil, fmt.Errorf("creating scoring engine: %w", err)
		}
	}

	weights := deps.Weights
	if weights == (scoring.Weights{}) {
		weights = scoring.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("default weights: %w", err)
	}

	return &Analyzer{
		taxonomy:   deps.Taxonomy,
		normalizer: normalize.New(deps.Taxonomy, deps.Classifier),
		engine:     engine,
		weights:    weights,
		logger:     log.With(zap.String("taxonomy_version", deps.Taxonomy.Version())),
	}, nil
}

// Normalizer exposes the analyzer's normalizer for callers that prepare Input themselves.
func (a *Analyzer) Normalizer() *normalize.Normalizer {
	return a.normalizer
}

// Analyze validates weights, rejects an empty requirement set, then matches, scores and
// assembles the report, in that order.
func (a *Analyzer) Analyze(in Input) (*report.Report, error) {
	if err := in.Weights.Validate(); err != nil {
		return nil, err
	}

	if len(in.Requirements) == 0 {
		return nil, &scoring.EmptyRequirementsError{}
	}

	result := matcher.Match(in.Candidate, in.Requirements)
	counts := result.Counts()
	a.logger.Debug("analysis step",
		zap.String("name", "match"),
		zap.Int("exact", counts.Exact),
		zap.Int("partial", counts.Partial),
		zap.Int("missing", counts.Missing),
		zap.Int("missing_preferred", counts.MissingPreferred),
		zap.Int("uncategorized", len(result.Uncategorized)),
	)

	outcome, err := a.engine.Score(&result, in.Inputs, in.Weights, in.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	r := report.Assemble(&result, outcome, report.Meta{
		TaxonomyVersion: a.taxonomy.Version(),
		Candidate:       in.Candidate,
		Requirements:    in.Requirements,
		Inputs:          in.Inputs,
		Weights:         in.Weights,
	})

	logger.WithFields(a.logger, logger.AnalysisFields(r.Fingerprint, string(r.Tier), r.Overall)...).
		Info("analysis complete", zap.Int("warnings", len(r.Warnings)))

	return r, nil
}

// AnalyzeRaw normalizes a raw document and analyzes it.
func (a *Analyzer) AnalyzeRaw(raw RawInput) (*report.Report, error) {
	weights := a.weights
	if raw.Weights != nil {
		weights = *raw.Weights
	}

	return a.Analyze(Input{
		Candidate:    a.normalizer.Normalize(raw.CandidateSkills),
		Requirements: a.normalizer.Requirements(raw.Requirements),
		Inputs:       raw.SubScores,
		Weights:      weights,
		Thresholds:   raw.Thresholds,
	})
}
