// Package scoring turns a match result and supplied sub-scores into a weighted overall
// score and a hiring tier.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/matcher"
	"github.com/spigell/hire-signal/internal/skill"
)

const (
	minScore = 0
	maxScore = 100

	riskSkills     = 60
	riskExperience = 50
	riskEducation  = 40
	strengthScore  = 80

	// roundingSlack absorbs float noise such as 84.49999999999999 for a true 84.5.
	roundingSlack = 1e-9
)

// Inputs are the sub-scores computed upstream, each expected in 0..100.
type Inputs struct {
	Experience   float64 `json:"experience" mapstructure:"experience"`
	Education    float64 `json:"education" mapstructure:"education"`
	Achievements float64 `json:"achievements" mapstructure:"achievements"`
	CulturalFit  float64 `json:"cultural_fit" mapstructure:"cultural_fit"`
}

// SubScores are the five components of the overall score after clamping.
type SubScores struct {
	Skills       float64 `json:"skills"`
	Experience   float64 `json:"experience"`
	Education    float64 `json:"education"`
	Achievements float64 `json:"achievements"`
	CulturalFit  float64 `json:"cultural_fit"`
}

func (s SubScores) named() []namedWeight {
	return Weights(s).values()
}

// Confidence grades how consistent the skills and experience signals are.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Flag names a sub-score that stands out as a risk or a strength.
type Flag struct {
	Area  string  `json:"area"`
	Score float64 `json:"score"`
}

// Outcome is the result of a Score call.
type Outcome struct {
	SubScores  SubScores           `json:"sub_scores"`
	Overall    int                 `json:"overall"`
	Tier       Tier                `json:"tier"`
	Thresholds Thresholds          `json:"thresholds"`
	Confidence Confidence          `json:"confidence"`
	Risks      []Flag              `json:"risks,omitempty"`
	Strengths  []Flag              `json:"strengths,omitempty"`
	Warnings   []OutOfRangeWarning `json:"warnings,omitempty"`
}

// Engine computes outcomes. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	params     Params
	thresholds ThresholdSource
	logger     *zap.Logger
}

// New validates params and returns an Engine. A nil source selects DefaultThresholds
// and a nil logger disables logging.
func New(params Params, thresholds ThresholdSource, logger *zap.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if thresholds == nil {
		thresholds = StaticThresholds(DefaultThresholds())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{params: params, thresholds: thresholds, logger: logger}, nil
}

// Score validates weights, computes the sub-scores and maps the overall onto a tier.
// A non-nil override is used for this call only; otherwise the engine's source is read.
// Out of range inputs are clamped and reported as warnings rather than failing.
func (e *Engine) Score(result *matcher.Result, inputs Inputs, weights Weights, override *Thresholds) (Outcome, error) {
	if err := weights.Validate(); err != nil {
		return Outcome{}, err
	}

	if result == nil || result.Counts().Total() == 0 {
		return Outcome{}, &EmptyRequirementsError{}
	}

	thresholds, err := e.resolveThresholds(override)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome

	clamp := func(field string, v float64) float64 {
		c := clampScore(v)
		if c != v {
			w := OutOfRangeWarning{Field: field, Input: strconv.FormatFloat(v, 'g', -1, 64), Clamped: c}
			out.Warnings = append(out.Warnings, w)
			e.logger.Warn("sub-score clamped", zap.String("field", field), zap.String("input", w.Input), zap.Float64("clamped", c))
		}
		return c
	}

	out.SubScores = SubScores{
		Skills:       e.SkillsScore(result),
		Experience:   clamp("experience", inputs.Experience),
		Education:    clamp("education", inputs.Education),
		Achievements: clamp("achievements", inputs.Achievements),
		CulturalFit:  clamp("cultural_fit", inputs.CulturalFit),
	}

	weighted := weights.Skills*out.SubScores.Skills +
		weights.Experience*out.SubScores.Experience +
		weights.Education*out.SubScores.Education +
		weights.Achievements*out.SubScores.Achievements +
		weights.CulturalFit*out.SubScores.CulturalFit

	out.Overall = roundHalfUp(weighted)
	out.Thresholds = thresholds
	out.Tier = thresholds.TierFor(out.Overall)
	out.Risks, out.Strengths = flags(out.SubScores)
	out.Confidence = confidence(out.SubScores, out.Overall)

	e.logger.Debug("scored",
		zap.Float64("skills", out.SubScores.Skills),
		zap.Float64("weighted", weighted),
		zap.Int("overall", out.Overall),
		zap.String("tier", string(out.Tier)),
	)

	return out, nil
}

func (e *Engine) resolveThresholds(override *Thresholds) (Thresholds, error) {
	if override != nil {
		if err := override.Validate(); err != nil {
			return Thresholds{}, err
		}
		return *override, nil
	}

	thresholds, err := e.thresholds.Thresholds()
	if err != nil {
		return Thresholds{}, fmt.Errorf("reading thresholds: %w", err)
	}
	if err := thresholds.Validate(); err != nil {
		return Thresholds{}, err
	}
	return thresholds, nil
}

// SkillsScore sums the credit of every requirement and divides it by the number of
// required requirements, scaled to 0..100. Exact matches earn ExactCredit (ShallowCredit
// when shallow), partial matches PartialCredit and missing requirements lose MissingPenalty.
// Preferred requirements contribute PreferredWeight times their credit or penalty but do
// not count in the denominator. Without required requirements the sum is divided by one.
func (e *Engine) SkillsScore(result *matcher.Result) float64 {
	importance := func(required bool) float64 {
		if required {
			return 1
		}
		return e.params.PreferredWeight
	}

	var earned float64
	required := 0
	count := func(r skill.Requirement) {
		if r.Required {
			required++
		}
	}

	for _, m := range result.Exact {
		credit := e.params.ExactCredit
		if m.Shallow {
			credit = e.params.ShallowCredit
		}
		earned += importance(m.Requirement.Required) * credit
		count(m.Requirement)
	}
	for _, m := range result.Partial {
		earned += importance(m.Requirement.Required) * e.params.PartialCredit
		count(m.Requirement)
	}
	for _, r := range result.Missing {
		earned -= importance(r.Required) * e.params.MissingPenalty
		count(r)
	}
	for _, r := range result.MissingPreferred {
		earned -= importance(r.Required) * e.params.MissingPenalty
		count(r)
	}

	return clampScore(maxScore * earned / float64(max(required, 1)))
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return minScore
	case v < minScore:
		return minScore
	case v > maxScore:
		return maxScore
	default:
		return v
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5 + roundingSlack))
}

func flags(s SubScores) (risks, strengths []Flag) {
	limits := map[string]float64{
		"skills":     riskSkills,
		"experience": riskExperience,
		"education":  riskEducation,
	}

	for _, nw := range s.named() {
		if limit, ok := limits[nw.name]; ok && nw.value < limit {
			risks = append(risks, Flag{Area: nw.name, Score: nw.value})
		}
		if nw.value >= strengthScore {
			strengths = append(strengths, Flag{Area: nw.name, Score: nw.value})
		}
	}

	return risks, strengths
}

// confidence is high when skills and experience agree on a clear-cut overall.
func confidence(s SubScores, overall int) Confidence {
	spread := math.Abs(s.Skills - s.Experience)
	switch {
	case spread < 20 && (overall > 80 || overall < 40):
		return ConfidenceHigh
	case spread < 30:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
