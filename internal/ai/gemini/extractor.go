package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/ai"
	"github.com/spigell/hire-signal/internal/scoring"
	"github.com/spigell/hire-signal/internal/skill"
	"github.com/spigell/hire-signal/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed system.md
var systemPrompt string

//go:embed extract_prompt.md
var extractTemplate string

const defaultMaxLogLength = 200

// Extractor turns a resume and a job description into an analysis document with Gemini.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Extractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Extractor) Extract(ctx context.Context, resume, jobDescription string) (*ai.Extraction, error) {
	resume = strings.TrimSpace(resume)
	jobDescription = strings.TrimSpace(jobDescription)
	if resume == "" {
		return nil, errors.New("resume text is required")
	}
	if jobDescription == "" {
		return nil, errors.New("job description text is required")
	}

	prompt := buildExtractPrompt(resume, jobDescription)

	raw, err := e.generate(ctx, "extract", prompt)
	if err != nil {
		return nil, err
	}

	extraction, err := parseExtraction(raw)
	if err != nil {
		return nil, err
	}

	if len(extraction.Requirements) == 0 {
		e.logger.Warn("gemini extracted no requirements", zap.Int("candidate_skills", len(extraction.CandidateSkills)))
	}

	extraction.Raw = raw
	return extraction, nil
}

func (e *Extractor) generate(ctx context.Context, task, prompt string) (string, error) {
	e.logger.Debug("gemini generate content request",
		zap.String("task", task),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini generate content response",
		zap.String("task", task),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return raw, nil
}

func buildExtractPrompt(resume, jobDescription string) string {
	template := extractTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME}}\n\nJob description:\n{{JOB_DESCRIPTION}}\n\nJSON Response:"
	}
	// Placeholders inside the substituted texts stay literal.
	prompt := strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.Replace(prompt, "{{RESUME}}", resume, 1)
	return prompt
}

func parseExtraction(raw string) (*ai.Extraction, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	out := &ai.Extraction{
		CandidateSkills: coerceStrings(data["candidate_skills"]),
		Requirements:    coerceRequirements(data["requirements"]),
		Notes:           coerceString(data["notes"]),
	}

	if scores, ok := data["sub_scores"].(map[string]any); ok {
		out.SubScores = scoring.Inputs{
			Experience:   coerceScore(scores["experience"]),
			Education:    coerceScore(scores["education"]),
			Achievements: coerceScore(scores["achievements"]),
			CulturalFit:  coerceScore(scores["cultural_fit"]),
		}
	}

	return out, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// coerceRequirements never returns nil, so a missing field still encodes as [].
func coerceRequirements(v any) []skill.RawRequirement {
	items, ok := v.([]any)
	if !ok {
		return []skill.RawRequirement{}
	}

	out := make([]skill.RawRequirement, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			// A bare string carries no priority; treat it as must-have.
			if text := strings.TrimSpace(val); text != "" {
				out = append(out, skill.RawRequirement{Text: text, Required: true})
			}
		case map[string]any:
			text := coerceString(val["skill"])
			if text == "" {
				continue
			}
			required := true
			if flag, present := val["required"]; present {
				required = coerceBool(flag)
			}
			out = append(out, skill.RawRequirement{Text: text, Required: required})
		}
	}
	return out
}

// coerceStrings never returns nil, so a missing field still encodes as [].
func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// coerceScore reads a 0..100 sub-score. Missing or unreadable values become 0;
// range clamping is left to the scoring engine, which reports it.
func coerceScore(v any) float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes" || lower == "required"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
