package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/ai"
	"github.com/spigell/hire-signal/internal/report"
)

//go:embed interview_prompt.md
var interviewTemplate string

// Interviewer drafts interview questions for the gaps of a report.
type Interviewer struct {
	extractor *Extractor
}

var _ ai.Interviewer = (*Interviewer)(nil)

func NewInterviewer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Interviewer {
	return &Interviewer{extractor: NewExtractor(generator, logger, maxLogLength)}
}

type gapPayload struct {
	Skill    string `json:"skill"`
	Category string `json:"category,omitempty"`
	Required bool   `json:"required"`
	Closest  string `json:"closest,omitempty"`
}

// Questions returns nothing without calling the model when there are no gaps.
func (i *Interviewer) Questions(ctx context.Context, gaps []report.Gap) ([]ai.Question, error) {
	if len(gaps) == 0 {
		return nil, nil
	}

	payload := make([]gapPayload, 0, len(gaps))
	for _, g := range gaps {
		payload = append(payload, gapPayload{
			Skill:    g.Skill,
			Category: string(g.Category),
			Required: g.Required,
			Closest:  g.Closest,
		})
	}

	gapsJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal gaps payload: %w", err)
	}

	prompt := strings.ReplaceAll(interviewTemplate, "{{GAPS_JSON}}", string(gapsJSON))

	raw, err := i.extractor.generate(ctx, "questions", prompt)
	if err != nil {
		return nil, err
	}

	return parseQuestions(raw)
}

func parseQuestions(raw string) ([]ai.Question, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	items, ok := data["questions"].([]any)
	if !ok {
		return nil, errors.New("gemini response has no questions list")
	}

	out := make([]ai.Question, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q := ai.Question{
			Skill:    coerceString(m["skill"]),
			Question: coerceString(m["question"]),
			Purpose:  coerceString(m["purpose"]),
		}
		if q.Question == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
