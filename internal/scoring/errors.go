package scoring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWeights    = errors.New("invalid weights")
	ErrEmptyRequirements = errors.New("empty requirement set")
	ErrInvalidThresholds = errors.New("invalid thresholds")
	ErrInvalidParams     = errors.New("invalid scoring params")
)

// InvalidWeightsError reports a weight mapping that cannot be used for scoring.
type InvalidWeightsError struct {
	Reason string
	Sum    float64
}

func (e *InvalidWeightsError) Error() string {
	if e.Sum != 0 {
		return fmt.Sprintf("%s: %s (sum %.6f)", ErrInvalidWeights, e.Reason, e.Sum)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidWeights, e.Reason)
}

func (e *InvalidWeightsError) Unwrap() error {
	return ErrInvalidWeights
}

// EmptyRequirementsError is returned when a job description yields no requirements.
// A skills sub-score over zero requirements is undefined.
type EmptyRequirementsError struct{}

func (e *EmptyRequirementsError) Error() string {
	return ErrEmptyRequirements.Error() + ": at least one requirement is needed to score skills"
}

func (e *EmptyRequirementsError) Unwrap() error {
	return ErrEmptyRequirements
}

// OutOfRangeWarning records a supplied sub-score outside 0..100 that was clamped.
type OutOfRangeWarning struct {
	Field string `json:"field"`
	// Input is the formatted original value. NaN and infinities stay printable.
	Input   string  `json:"input"`
	Clamped float64 `json:"clamped"`
}

func (w OutOfRangeWarning) String() string {
	return fmt.Sprintf("%s score %s is outside 0..100, clamped to %g", w.Field, w.Input, w.Clamped)
}
