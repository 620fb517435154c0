package scoring

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

const weightTolerance = 1e-6

// Weights is the relative importance of each sub-score. The values must sum to 1.
type Weights struct {
	Skills       float64 `mapstructure:"skills" json:"skills" yaml:"skills"`
	Experience   float64 `mapstructure:"experience" json:"experience" yaml:"experience"`
	Education    float64 `mapstructure:"education" json:"education" yaml:"education"`
	Achievements float64 `mapstructure:"achievements" json:"achievements" yaml:"achievements"`
	CulturalFit  float64 `mapstructure:"cultural_fit" json:"cultural_fit" yaml:"cultural_fit"`
}

func DefaultWeights() Weights {
	return Weights{
		Skills:       0.35,
		Experience:   0.30,
		Education:    0.15,
		Achievements: 0.10,
		CulturalFit:  0.10,
	}
}

type namedWeight struct {
	name  string
	value float64
}

func (w Weights) values() []namedWeight {
	return []namedWeight{
		{"skills", w.Skills},
		{"experience", w.Experience},
		{"education", w.Education},
		{"achievements", w.Achievements},
		{"cultural_fit", w.CulturalFit},
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Achievements + w.CulturalFit
}

// Validate checks that every weight is finite and non-negative and that they sum to 1.
func (w Weights) Validate() error {
	for _, nw := range w.values() {
		if math.IsNaN(nw.value) || math.IsInf(nw.value, 0) {
			return &InvalidWeightsError{Reason: fmt.Sprintf("%s weight is not a finite number", nw.name)}
		}
		if nw.value < 0 {
			return &InvalidWeightsError{Reason: fmt.Sprintf("%s weight %g is negative", nw.name, nw.value)}
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return &InvalidWeightsError{Reason: "weights must sum to 1", Sum: sum}
	}

	return nil
}

// WeightsFromMap decodes a configuration mapping such as
// {skills: 0.4, experience: 0.3, ...}. Unknown keys are rejected and an empty
// mapping selects DefaultWeights. The result is validated.
func WeightsFromMap(raw map[string]any) (Weights, error) {
	if len(raw) == 0 {
		return DefaultWeights(), nil
	}

	var w Weights
	cfg := &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &w,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return Weights{}, fmt.Errorf("creating weights decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return Weights{}, &InvalidWeightsError{Reason: err.Error()}
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}

	return w, nil
}
