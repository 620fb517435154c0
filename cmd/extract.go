package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/ai/gemini"
	"github.com/spigell/hire-signal/internal/logger"
	"github.com/spigell/hire-signal/internal/schemas"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build an input document from a plain-text resume and job description with Gemini",
	Run: func(cmd *cobra.Command, _ []string) {
		extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("resume", "", "plain-text resume file")
	extractCmd.Flags().String("job", "", "plain-text job description file")
	extractCmd.Flags().StringP("output", "o", "", "write the input document to this file instead of stdout")

	extractCmd.MarkFlagRequired("resume")
	extractCmd.MarkFlagRequired("job")
}

func extract(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")

	resume, err := readInput(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.String("file", resumePath), zap.Error(err))
	}
	job, err := readInput(jobPath)
	if err != nil {
		logger.Fatal("reading job description", zap.String("file", jobPath), zap.Error(err))
	}

	generator, aiLogger, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building gemini client", zap.Error(err))
	}

	extraction, err := gemini.NewExtractor(generator, aiLogger, config.AI.MaxLogLength).
		Extract(ctx, string(resume), string(job))
	if err != nil {
		logger.Fatal("extracting skills", zap.Error(err))
	}

	input := extraction.Input()

	// The model is not trusted to follow the schema; report problems but keep the document.
	doc, err := json.Marshal(input)
	if err != nil {
		logger.Fatal("encoding input document", zap.Error(err))
	}
	if err := schemas.ValidateInput(doc); err != nil {
		var verr *schemas.ValidationError
		if !errors.As(err, &verr) {
			logger.Fatal("validating input document", zap.Error(err))
		}
		for _, fe := range verr.Errors {
			logger.Warn("extracted document does not match the input schema", zap.String("field", fe.Field), zap.String("reason", fe.Message))
		}
	}

	logger.Info("extracted input document",
		zap.Int("candidate_skills", len(input.CandidateSkills)),
		zap.Int("requirements", len(input.Requirements)),
		zap.String("notes", extraction.Notes),
	)

	output, _ := cmd.Flags().GetString("output")
	if err := writeJSON(output, input); err != nil {
		logger.Fatal("writing input document", zap.Error(err))
	}
}
