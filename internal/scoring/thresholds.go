package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Tier is the discrete hiring recommendation.
type Tier string

const (
	TierStrongHire Tier = "strong_hire"
	TierHire       Tier = "hire"
	TierMaybe      Tier = "maybe"
	TierNoHire     Tier = "no_hire"
)

// Thresholds are the inclusive lower bounds of each tier.
type Thresholds struct {
	StrongHire int `mapstructure:"strong-hire" json:"strong_hire" validate:"gte=0,lte=100,gtefield=Hire"`
	Hire       int `mapstructure:"hire" json:"hire" validate:"gte=0,lte=100,gtefield=Maybe"`
	Maybe      int `mapstructure:"maybe" json:"maybe" validate:"gte=0,lte=100"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{StrongHire: 85, Hire: 70, Maybe: 50}
}

func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidThresholds, err)
	}
	return nil
}

// TierFor maps an overall score onto a tier.
func (t Thresholds) TierFor(overall int) Tier {
	switch {
	case overall >= t.StrongHire:
		return TierStrongHire
	case overall >= t.Hire:
		return TierHire
	case overall >= t.Maybe:
		return TierMaybe
	default:
		return TierNoHire
	}
}

// ThresholdSource supplies tier thresholds. The engine asks for them on every Score
// call, so a source backed by live configuration takes effect without a restart.
type ThresholdSource interface {
	Thresholds() (Thresholds, error)
}

// StaticThresholds is a ThresholdSource that always returns itself.
type StaticThresholds Thresholds

func (s StaticThresholds) Thresholds() (Thresholds, error) {
	return Thresholds(s), nil
}

// ThresholdFunc adapts a function to ThresholdSource.
type ThresholdFunc func() (Thresholds, error)

func (f ThresholdFunc) Thresholds() (Thresholds, error) {
	return f()
}
