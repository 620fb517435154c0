// Package export writes analysis reports to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/hire-signal/internal/report"
	"github.com/spigell/hire-signal/internal/scoring"
)

const (
	SummarySheet = "Summary"
	MatchesSheet = "Matches"
	GapsSheet    = "Gaps"
)

var tierColors = map[scoring.Tier]string{
	scoring.TierStrongHire: "C6EFCE",
	scoring.TierHire:       "E2EFDA",
	scoring.TierMaybe:      "FFEB9C",
	scoring.TierNoHire:     "FFC7CE",
}

var headerStyleDef = &excelize.Style{
	Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
	Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
}

// WriteXLSX writes r to path, adding the .xlsx extension when missing, and returns the
// path actually written.
func WriteXLSX(r *report.Report, path string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is required")
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("output path is required")
	}

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{MatchesSheet, GapsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeSummary(f, r); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeMatches(f, r); err != nil {
		return "", fmt.Errorf("failed to create matches sheet: %w", err)
	}
	if err := writeGaps(f, r); err != nil {
		return "", fmt.Errorf("failed to create gaps sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return path, nil
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) add(values ...any) int {
	w.row++
	if w.err != nil {
		return w.row
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return w.row
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
	return w.row
}

func (w *sheetWriter) style(row, columns, style int) {
	if w.err != nil {
		return
	}
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style)
}

func (w *sheetWriter) header(style int, titles ...any) {
	row := w.add(titles...)
	w.style(row, len(titles), style)
}

func (w *sheetWriter) freezeHeader() {
	if w.err != nil {
		return
	}
	w.err = w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, r *report.Report) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 26); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "E", 16); err != nil {
		return err
	}

	header, err := f.NewStyle(headerStyleDef)
	if err != nil {
		return err
	}
	tier, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{tierColor(r.Tier)}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SummarySheet}

	w.header(header, "Analysis Report", "")
	w.add("Fingerprint", r.Fingerprint)
	w.add("Taxonomy version", r.TaxonomyVersion)
	w.add("Overall score", r.Overall)
	w.style(w.add("Tier", string(r.Tier)), 2, tier)
	w.add("Confidence", string(r.Confidence))
	w.add("Summary", r.Summary)
	w.add()

	w.header(header, "Sub-score", "Score", "Weight")
	sub := r.SubScores
	weights := r.Weights
	w.add("Skills", sub.Skills, weights.Skills)
	w.add("Experience", sub.Experience, weights.Experience)
	w.add("Education", sub.Education, weights.Education)
	w.add("Achievements", sub.Achievements, weights.Achievements)
	w.add("Cultural fit", sub.CulturalFit, weights.CulturalFit)
	w.add()

	w.header(header, "Threshold", "Minimum")
	w.add(string(scoring.TierStrongHire), r.Thresholds.StrongHire)
	w.add(string(scoring.TierHire), r.Thresholds.Hire)
	w.add(string(scoring.TierMaybe), r.Thresholds.Maybe)
	w.add()

	w.header(header, "Category", "Requirements", "Exact", "Partial", "Coverage %")
	for _, c := range r.Coverage {
		w.add(categoryLabel(string(c.Category)), c.Total, c.Exact, c.Partial, c.Percent)
	}

	if len(r.Risks) > 0 || len(r.Strengths) > 0 {
		w.add()
		w.header(header, "Flag", "Area", "Score")
		for _, flag := range r.Risks {
			w.add("risk", flag.Area, flag.Score)
		}
		for _, flag := range r.Strengths {
			w.add("strength", flag.Area, flag.Score)
		}
	}

	if len(r.Warnings) > 0 {
		w.add()
		w.header(header, "Warning", "")
		for _, warning := range r.Warnings {
			w.add(warning.String())
		}
	}

	return w.err
}

func writeMatches(f *excelize.File, r *report.Report) error {
	widths := map[string]float64{"A": 12, "B": 18, "C": 28, "D": 10, "E": 28, "F": 14, "G": 10}
	for col, width := range widths {
		if err := f.SetColWidth(MatchesSheet, col, col, width); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(headerStyleDef)
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: MatchesSheet}
	w.header(header, "Status", "Category", "Requirement", "Required", "Candidate skill", "Depth", "Shallow")

	for _, m := range r.Exact {
		w.add("exact", categoryLabel(string(m.Requirement.Skill.Category)), m.Requirement.Skill.Name(),
			m.Requirement.Required, m.Candidate.Name(), m.Candidate.Depth.String(), m.Shallow)
	}
	for _, m := range r.Partial {
		w.add("partial", categoryLabel(string(m.Category)), m.Requirement.Skill.Name(),
			m.Requirement.Required, m.Candidate.Name(), m.Candidate.Depth.String(), false)
	}
	for _, req := range r.Missing {
		w.add("missing", categoryLabel(string(req.Skill.Category)), req.Skill.Name(), true, "", "", false)
	}
	for _, req := range r.MissingPreferred {
		w.add("missing", categoryLabel(string(req.Skill.Category)), req.Skill.Name(), false, "", "", false)
	}

	if w.err == nil && w.row > 1 {
		w.err = f.AutoFilter(MatchesSheet, fmt.Sprintf("A1:G%d", w.row), []excelize.AutoFilterOptions{})
	}
	w.freezeHeader()

	return w.err
}

func writeGaps(f *excelize.File, r *report.Report) error {
	if err := f.SetColWidth(GapsSheet, "A", "D", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(GapsSheet, "E", "E", 70); err != nil {
		return err
	}

	header, err := f.NewStyle(headerStyleDef)
	if err != nil {
		return err
	}

	actions := map[string]string{}
	for _, rec := range r.Recommendations {
		actions[string(rec.Category)] = strings.Join(rec.Actions, "; ")
	}

	w := &sheetWriter{f: f, sheet: GapsSheet}
	w.header(header, "Skill", "Category", "Required", "Closest skill", "Suggested actions")

	for _, g := range r.Gaps() {
		action := ""
		if g.Closest == "" {
			action = actions[string(g.Category)]
		}
		w.add(g.Skill, categoryLabel(string(g.Category)), g.Required, g.Closest, action)
	}
	w.freezeHeader()

	return w.err
}

func tierColor(t scoring.Tier) string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return "FFFFFF"
}

func categoryLabel(c string) string {
	if c == "" {
		return "uncategorized"
	}
	return c
}
