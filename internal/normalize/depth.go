package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

// DepthClassifier estimates proficiency from the words surrounding a skill name,
// for example "expert in" or "(basic)".
type DepthClassifier interface {
	Classify(context string) skill.Depth
}

// Level is one row of the keyword-to-depth table.
type Level struct {
	Depth   skill.Depth
	Phrases []string
}

// DefaultLevels is checked top to bottom: the first level with a matching phrase wins.
var DefaultLevels = []Level{
	{
		Depth:   skill.DepthExpert,
		Phrases: []string{"expert", "advanced", "senior", "lead", "architect", "extensive", "mastery", "principal", "deep"},
	},
	{
		Depth: skill.DepthIntermediate,
		Phrases: []string{
			"proficient", "experienced", "solid", "strong", "intermediate", "working knowledge",
			"familiar", "familiarity", "commercial", "some experience", "hands-on",
		},
	},
	{
		Depth:   skill.DepthBeginner,
		Phrases: []string{"basic", "basics", "beginner", "learning", "exposure", "introductory", "novice", "entry-level"},
	},
}

const (
	expertYears       = 7
	intermediateYears = 3
)

var yearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)\b`)

// KeywordClassifier sniffs qualifier words using a fixed table.
// Phrases outrank an "N years" mention.
type KeywordClassifier struct {
	levels []level
}

type level struct {
	depth   skill.Depth
	phrases [][]string
}

// NewKeywordClassifier builds a classifier from levels. Empty levels fall back to DefaultLevels.
func NewKeywordClassifier(levels []Level) *KeywordClassifier {
	if len(levels) == 0 {
		levels = DefaultLevels
	}

	c := &KeywordClassifier{levels: make([]level, 0, len(levels))}
	for _, l := range levels {
		row := level{depth: l.Depth}
		for _, phrase := range l.Phrases {
			if tokens := tokenize(phrase); len(tokens) > 0 {
				row.phrases = append(row.phrases, tokens)
			}
		}
		c.levels = append(c.levels, row)
	}

	return c
}

// Classify implements DepthClassifier.
func (c *KeywordClassifier) Classify(context string) skill.Depth {
	tokens := tokenize(context)
	if len(tokens) == 0 {
		return skill.DepthUnknown
	}

	for _, row := range c.levels {
		for _, phrase := range row.phrases {
			if containsPhrase(tokens, phrase) {
				return row.depth
			}
		}
	}

	if m := yearsPattern.FindStringSubmatch(strings.Join(tokens, " ")); m != nil {
		return depthForYears(m[1])
	}

	return skill.DepthUnknown
}

var separators = strings.NewReplacer("(", " ", ")", " ", "[", " ", "]", " ", ",", " ", ";", " ", ":", " ", "|", " ")

// edgePunct is trimmed from both ends of a token, so "python." reads as "python".
const edgePunct = `.!?'"`

// tokenize folds text and splits it on whitespace and list punctuation.
// Punctuation inside skill names such as "c++", "node.js" or "ci/cd" is kept.
func tokenize(text string) []string {
	raw := fields(text)
	out := raw[:0]
	for _, f := range raw {
		if f = strings.Trim(f, edgePunct); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func fields(text string) []string {
	return strings.Fields(separators.Replace(taxonomy.Key(text)))
}

func containsPhrase(tokens, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, p := range phrase {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func depthForYears(raw string) skill.Depth {
	years, err := strconv.Atoi(raw)
	if err != nil {
		return skill.DepthUnknown
	}
	switch {
	case years >= expertYears:
		return skill.DepthExpert
	case years >= intermediateYears:
		return skill.DepthIntermediate
	default:
		return skill.DepthBeginner
	}
}
