package skill

import (
	"encoding/json"
	"testing"
)

func TestDepthTextRoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		Depth Depth `json:"depth"`
	}

	tests := []struct {
		raw    string
		expect Depth
	}{
		{raw: `{"depth":"expert"}`, expect: DepthExpert},
		{raw: `{"depth":"Beginner"}`, expect: DepthBeginner},
		{raw: `{"depth":""}`, expect: DepthUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			var d doc
			if err := json.Unmarshal([]byte(tt.raw), &d); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Depth != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, d.Depth)
			}
		})
	}

	var d doc
	if err := json.Unmarshal([]byte(`{"depth":"guru"}`), &d); err == nil {
		t.Fatalf("expected error for unknown depth")
	}

	out, err := json.Marshal(doc{Depth: DepthIntermediate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"depth":"intermediate"}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestSkillName(t *testing.T) {
	known := Skill{Raw: "golang", Canonical: "Go"}
	if known.Name() != "Go" || !known.Known() {
		t.Fatalf("unexpected known skill: %+v", known)
	}

	literal := Skill{Raw: "Quantum Basket Weaving"}
	if literal.Name() != "Quantum Basket Weaving" || literal.Known() {
		t.Fatalf("unexpected literal skill: %+v", literal)
	}
}
