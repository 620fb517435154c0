// Package skill holds the data model shared by the normalizer, matcher and scorer.
package skill

import (
	"fmt"
	"strings"

	"github.com/spigell/hire-signal/internal/taxonomy"
)

// Depth is an estimate of proficiency inferred from qualifier words.
type Depth int

const (
	DepthUnknown Depth = iota
	DepthBeginner
	DepthIntermediate
	DepthExpert
)

var depthNames = map[Depth]string{
	DepthUnknown:      "unknown",
	DepthBeginner:     "beginner",
	DepthIntermediate: "intermediate",
	DepthExpert:       "expert",
}

func (d Depth) String() string {
	if name, ok := depthNames[d]; ok {
		return name
	}
	return fmt.Sprintf("depth(%d)", int(d))
}

// ParseDepth converts a depth name back to a Depth.
func ParseDepth(s string) (Depth, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DepthUnknown, nil
	}
	for d, name := range depthNames {
		if name == s {
			return d, nil
		}
	}
	return DepthUnknown, fmt.Errorf("unknown depth %q", s)
}

func (d Depth) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Depth) UnmarshalText(text []byte) error {
	parsed, err := ParseDepth(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Skill is a raw token resolved against the taxonomy.
// Canonical is empty when no taxonomy entry matched; the token is then an unknown literal.
type Skill struct {
	Raw       string            `json:"raw"`
	Canonical string            `json:"canonical,omitempty"`
	Category  taxonomy.Category `json:"category,omitempty"`
	Depth     Depth             `json:"depth"`
}

// Known reports whether the skill resolved to a taxonomy entry.
func (s Skill) Known() bool {
	return s.Canonical != ""
}

// Name returns the canonical name when known, otherwise the raw text.
func (s Skill) Name() string {
	if s.Known() {
		return s.Canonical
	}
	return s.Raw
}

// Requirement is a single job description line.
// Senior is set when the requirement text asks for expert-level depth.
type Requirement struct {
	Skill    Skill `json:"skill"`
	Required bool  `json:"required"`
	Senior   bool  `json:"senior,omitempty"`
}

// RequirementSet is the ordered list of requirements extracted from a job description.
type RequirementSet []Requirement

// RawRequirement is a requirement as produced by upstream extraction, before normalization.
type RawRequirement struct {
	Text     string `json:"skill" mapstructure:"skill"`
	Required bool   `json:"required" mapstructure:"required"`
}
