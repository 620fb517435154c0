package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/ai"
	"github.com/spigell/hire-signal/internal/ai/gemini"
	"github.com/spigell/hire-signal/internal/analyzer"
	"github.com/spigell/hire-signal/internal/export"
	"github.com/spigell/hire-signal/internal/logger"
	"github.com/spigell/hire-signal/internal/report"
	"github.com/spigell/hire-signal/internal/schemas"
)

const (
	PromptSummary    = "Show summary"
	PromptByCategory = "Report by category"
	PromptGaps       = "Show gaps and recommendations"
	PromptQuestions  = "Generate interview questions"
	PromptToFile     = "Dump report to file"
	PromptToXLSX     = "Export report to xlsx"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSummary, PromptByCategory, PromptGaps, PromptQuestions, PromptToFile, PromptToXLSX, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match and score an input document",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("input", "i", "", "input document in json (use - for stdin)")
	analyzeCmd.Flags().StringP("output", "o", "", "write the json report to this file instead of stdout")
	analyzeCmd.Flags().String("xlsx", "", "also export the report to an xlsx file")
	analyzeCmd.Flags().Bool("interactive", false, "explore the report in an interactive menu")
	analyzeCmd.Flags().Bool("questions", false, "generate interview questions for the gaps (requires ai)")

	analyzeCmd.MarkFlagRequired("input")
}

// analysisSession carries everything the interactive menu acts on.
type analysisSession struct {
	ctx         context.Context
	config      *Config
	logger      *zap.Logger
	report      *report.Report
	interviewer ai.Interviewer
	xlsxPath    string
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the analysis", zap.String("version", version))

	input, _ := cmd.Flags().GetString("input")
	raw, err := readInputDocument(input)
	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				logger.Error("input document is invalid", zap.String("field", fe.Field), zap.String("reason", fe.Message))
			}
		}
		logger.Fatal("reading input document", zap.String("input", input), zap.Error(err))
	}

	a, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("creating the analyzer", zap.Error(err))
	}

	r, err := a.AnalyzeRaw(raw)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	for _, w := range r.Warnings {
		logger.Warn("input data issue", zap.String("warning", w.String()))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := writeJSON(output, r); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}

	session := &analysisSession{ctx: ctx, config: config, logger: logger, report: r}
	session.xlsxPath, _ = cmd.Flags().GetString("xlsx")

	if session.xlsxPath != "" {
		if err := session.exportXLSX(); err != nil {
			logger.Fatal("exporting report", zap.Error(err))
		}
	}

	if questions, _ := cmd.Flags().GetBool("questions"); questions {
		if err := session.questions(); err != nil {
			logger.Fatal("generating interview questions", zap.Error(err))
		}
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := session.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func readInputDocument(path string) (analyzer.RawInput, error) {
	var raw analyzer.RawInput

	data, err := readInput(path)
	if err != nil {
		return raw, err
	}

	if err := schemas.ValidateInput(data); err != nil {
		return raw, err
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("decoding input document: %w", err)
	}

	return raw, nil
}

func (s *analysisSession) handleAction(action string) error {
	switch action {
	case PromptSummary:
		s.logger.Info(summaryText(s.report),
			zap.Int("overall", s.report.Overall),
			zap.String("tier", string(s.report.Tier)),
			zap.String("confidence", string(s.report.Confidence)),
		)
		return nil
	case PromptByCategory:
		grouped := s.report.ByCategory()
		pretty, _ := json.MarshalIndent(grouped, "", "  ")
		s.logger.Info(string(pretty), zap.Int("categories count", len(grouped)))
		return nil
	case PromptGaps:
		pretty, _ := json.MarshalIndent(struct {
			Gaps            []report.Gap            `json:"gaps"`
			Recommendations []report.Recommendation `json:"recommendations"`
		}{s.report.Gaps(), s.report.Recommendations}, "", "  ")
		s.logger.Info(string(pretty), zap.Int("gaps count", len(s.report.Gaps())))
		return nil
	case PromptQuestions:
		return s.questions()
	case PromptToFile:
		filename, err := dumpToTmpFile("report_*.json", s.report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		s.logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptToXLSX:
		if s.xlsxPath == "" {
			path, err := (&promptui.Prompt{Label: "xlsx file", Default: "report.xlsx"}).Run()
			if err != nil {
				return err
			}
			s.xlsxPath = path
		}
		return s.exportXLSX()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *analysisSession) exportXLSX() error {
	path, err := export.WriteXLSX(s.report, s.xlsxPath)
	if err != nil {
		return err
	}
	s.logger.Info("report exported", zap.String("filename", path))
	return nil
}

func (s *analysisSession) questions() error {
	if s.interviewer == nil {
		generator, aiLogger, err := newGenerator(s.ctx, s.config.AI, s.logger)
		if err != nil {
			return err
		}
		s.interviewer = gemini.NewInterviewer(generator, aiLogger, s.config.AI.MaxLogLength)
	}

	questions, err := s.interviewer.Questions(s.ctx, s.report.Gaps())
	if err != nil {
		return err
	}

	if len(questions) == 0 {
		s.logger.Info("no gaps to ask about")
		return nil
	}

	pretty, _ := json.MarshalIndent(questions, "", "  ")
	s.logger.Info(string(pretty), zap.Int("questions count", len(questions)))
	return nil
}

func summaryText(r *report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (overall %d, %s)\n", r.Summary, r.Overall, r.Tier)
	fmt.Fprintf(&b, "skills %.1f, experience %.1f, education %.1f, achievements %.1f, cultural fit %.1f",
		r.SubScores.Skills, r.SubScores.Experience, r.SubScores.Education, r.SubScores.Achievements, r.SubScores.CulturalFit)
	for _, flag := range r.Risks {
		fmt.Fprintf(&b, "\nrisk: %s %.1f", flag.Area, flag.Score)
	}
	for _, flag := range r.Strengths {
		fmt.Fprintf(&b, "\nstrength: %s %.1f", flag.Area, flag.Score)
	}
	return b.String()
}
