package scoring

import "fmt"

// Params tunes the skills sub-score.
type Params struct {
	// ExactCredit is earned by a requirement the candidate lists under the same name.
	ExactCredit float64 `mapstructure:"exact-credit" json:"exact_credit" validate:"gt=0"`
	// ShallowCredit replaces ExactCredit when a senior requirement is met at beginner depth.
	ShallowCredit float64 `mapstructure:"shallow-credit" json:"shallow_credit" validate:"gte=0,ltefield=ExactCredit"`
	// PartialCredit is earned by a different skill of the same category.
	PartialCredit float64 `mapstructure:"partial-credit" json:"partial_credit" validate:"gte=0,ltefield=ExactCredit"`
	// MissingPenalty is subtracted for every missing requirement.
	MissingPenalty float64 `mapstructure:"missing-penalty" json:"missing_penalty" validate:"gte=0"`
	// PreferredWeight is the importance of a preferred requirement relative to a required one.
	PreferredWeight float64 `mapstructure:"preferred-weight" json:"preferred_weight" validate:"gt=0,lte=1"`
}

func DefaultParams() Params {
	return Params{
		ExactCredit:     1.0,
		ShallowCredit:   0.75,
		PartialCredit:   0.5,
		MissingPenalty:  0.25,
		PreferredWeight: 0.5,
	}
}

func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
