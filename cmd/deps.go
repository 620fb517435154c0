package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hire-signal/internal/ai/gemini"
	"github.com/spigell/hire-signal/internal/analyzer"
	"github.com/spigell/hire-signal/internal/logger"
	"github.com/spigell/hire-signal/internal/scoring"
	"github.com/spigell/hire-signal/internal/secrets"
	"github.com/spigell/hire-signal/internal/taxonomy"
)

func loadTaxonomy(config *Config) (*taxonomy.Taxonomy, error) {
	if path := strings.TrimSpace(config.TaxonomyFile); path != "" {
		return taxonomy.LoadFile(path)
	}
	return taxonomy.Default()
}

func newAnalyzer(config *Config, log *zap.Logger) (*analyzer.Analyzer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	tax, err := loadTaxonomy(config)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	for _, c := range tax.Conflicts() {
		log.Debug("taxonomy alias shadowed",
			zap.String("alias", c.Alias),
			zap.String("winner", c.Winner),
			zap.String("loser", c.Loser),
		)
	}

	engine, err := scoring.New(config.Scoring, viperThresholds{v: viper.GetViper()}, log)
	if err != nil {
		return nil, fmt.Errorf("creating scoring engine: %w", err)
	}

	weights, err := scoring.WeightsFromMap(config.Weights)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	return analyzer.New(analyzer.Deps{
		Taxonomy: tax,
		Engine:   engine,
		Weights:  weights,
		Logger:   log,
	})
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, *zap.Logger, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil, fmt.Errorf("ai is disabled (set ai.enabled in the configuration file)")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	aiLogger := logger.WithAIFields(log, "gemini", cfg.Model).
		With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, aiLogger)
	if err != nil {
		return nil, nil, err
	}

	return generator, aiLogger, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func dumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func writeJSON(path string, v any) error {
	out := os.Stdout
	if path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
