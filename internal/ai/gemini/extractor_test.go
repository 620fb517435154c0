package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hire-signal/internal/schemas"
	"github.com/spigell/hire-signal/internal/skill"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
	calls      int
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractorExtract(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"candidate_skills": ["Python (expert)", " SQL ", ""],
		"requirements": [
			{"skill": "Python", "required": true},
			{"skill": "Java", "required": "yes"},
			{"skill": "SQL", "required": false},
			"Docker",
			{"skill": ""}
		],
		"sub_scores": {"experience": 80, "education": "60", "achievements": "n/a", "cultural_fit": 120},
		"notes": "Strong backend profile"
	}` + "\n```"}

	extractor := NewExtractor(stub, zap.NewNop(), 0)

	extraction, err := extractor.Extract(context.Background(), "I write Python", "We need Python and Java")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(extraction.CandidateSkills, ","); got != "Python (expert),SQL" {
		t.Fatalf("unexpected candidate skills: %q", got)
	}

	want := []skill.RawRequirement{
		{Text: "Python", Required: true},
		{Text: "Java", Required: true},
		{Text: "SQL", Required: false},
		{Text: "Docker", Required: true},
	}
	if len(extraction.Requirements) != len(want) {
		t.Fatalf("expected %d requirements, got %+v", len(want), extraction.Requirements)
	}
	for i, req := range want {
		if extraction.Requirements[i] != req {
			t.Fatalf("requirement %d: expected %+v, got %+v", i, req, extraction.Requirements[i])
		}
	}

	scores := extraction.SubScores
	if scores.Experience != 80 || scores.Education != 60 || scores.Achievements != 0 || scores.CulturalFit != 120 {
		t.Fatalf("unexpected sub-scores: %+v", scores)
	}

	if extraction.Notes != "Strong backend profile" {
		t.Fatalf("unexpected notes: %q", extraction.Notes)
	}
	if extraction.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemPrompt {
		t.Fatalf("expected embedded system prompt")
	}
	if !strings.Contains(stub.lastPrompt, "I write Python") || !strings.Contains(stub.lastPrompt, "We need Python and Java") {
		t.Fatalf("expected both documents in prompt, got: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "{{RESUME}}") || strings.Contains(stub.lastPrompt, "{{JOB_DESCRIPTION}}") {
		t.Fatalf("placeholders were not substituted")
	}

	input := extraction.Input()
	if len(input.Requirements) != 4 || input.Weights != nil {
		t.Fatalf("unexpected analyzer input: %+v", input)
	}
}

func TestExtractorDefaultsMissingLists(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"absent":  `{"notes": "nothing usable"}`,
		"null":    `{"candidate_skills": null, "requirements": null}`,
		"wrong":   `{"candidate_skills": "Go", "requirements": {"skill": "Go"}}`,
		"no keys": `{}`,
	}

	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{response: response}
			extraction, err := NewExtractor(stub, nil, 0).Extract(context.Background(), "resume", "job")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if extraction.CandidateSkills == nil || extraction.Requirements == nil {
				t.Fatalf("expected empty lists, got %+v", extraction)
			}

			doc, err := json.Marshal(extraction.Input())
			if err != nil {
				t.Fatalf("marshal input: %v", err)
			}
			if !strings.Contains(string(doc), `"candidate_skills":[]`) || !strings.Contains(string(doc), `"requirements":[]`) {
				t.Fatalf("expected empty arrays, got %s", doc)
			}
			if err := schemas.ValidateInput(doc); err != nil {
				t.Fatalf("expected a schema-valid document, got %v", err)
			}
		})
	}
}

func TestExtractorRequiresBothTexts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		resume string
		job    string
	}{
		{name: "no resume", resume: "  ", job: "Go developer"},
		{name: "no job", resume: "Go developer", job: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{response: "{}"}
			if _, err := NewExtractor(stub, nil, 0).Extract(context.Background(), tc.resume, tc.job); err == nil {
				t.Fatal("expected error")
			}
			if stub.calls != 0 {
				t.Fatalf("expected no model call, got %d", stub.calls)
			}
		})
	}
}

func TestExtractorPropagatesErrors(t *testing.T) {
	genErr := errors.New("quota")
	stub := &stubGenerator{err: genErr}

	if _, err := NewExtractor(stub, nil, 0).Extract(context.Background(), "a", "b"); !errors.Is(err, genErr) {
		t.Fatalf("expected generator error, got %v", err)
	}

	stub = &stubGenerator{response: "I think the candidate is great"}
	if _, err := NewExtractor(stub, nil, 0).Extract(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected parse error for non-json response")
	}
}

func TestExtractorLogsTruncatedPreviews(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: `{"candidate_skills": ["Go"], "requirements": []}`}

	extractor := NewExtractor(stub, zap.New(core), 10)
	if _, err := extractor.Extract(context.Background(), strings.Repeat("resume ", 50), "job"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	requests := observed.FilterMessage("gemini generate content request").All()
	if len(requests) != 1 {
		t.Fatalf("expected a request log, got %d", len(requests))
	}
	preview, _ := requests[0].ContextMap()["prompt_preview"].(string)
	if !strings.HasSuffix(preview, "...") || len([]rune(preview)) != 13 {
		t.Fatalf("expected truncated preview, got %q", preview)
	}

	if observed.FilterMessage("gemini extracted no requirements").Len() != 1 {
		t.Fatalf("expected warning for empty requirements")
	}
}

func TestExtractJSONHandlesCodeBlock(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"`{\"a\":1}`":             `{"a":1}`,
	}

	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCoerceHelpers(t *testing.T) {
	t.Parallel()

	if !coerceBool("Required") || !coerceBool(1.0) || coerceBool("no") || coerceBool(nil) {
		t.Fatal("unexpected coerceBool result")
	}
	if coerceScore("75%") != 75 || coerceScore("abc") != 0 || coerceScore(nil) != 0 {
		t.Fatal("unexpected coerceScore result")
	}
	if coerceString(42.0) != "42" || coerceString(nil) != "" {
		t.Fatal("unexpected coerceString result")
	}
}
