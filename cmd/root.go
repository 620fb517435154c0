package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/hire-signal/internal/scoring"
)

const (
	app = "hire-signal"
)

type Config struct {
	TaxonomyFile string             `mapstructure:"taxonomy-file"`
	Weights      map[string]any     `mapstructure:"weights"`
	Thresholds   scoring.Thresholds `mapstructure:"thresholds"`
	Scoring      scoring.Params     `mapstructure:"scoring"`
	AI           *AIConfig          `mapstructure:"ai" validate:"omitempty"`
}

type AIConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hire-signal matches a candidate's skills against job requirements and scores the fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"thresholds.hire":        "HIRE_THRESHOLD",
		"thresholds.strong-hire": "STRONG_HIRE_THRESHOLD",
		"ai.api-key-file":        "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hire-signal.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	thresholds := scoring.DefaultThresholds()
	v.SetDefault("thresholds.strong-hire", thresholds.StrongHire)
	v.SetDefault("thresholds.hire", thresholds.Hire)
	v.SetDefault("thresholds.maybe", thresholds.Maybe)

	params := scoring.DefaultParams()
	v.SetDefault("scoring.exact-credit", params.ExactCredit)
	v.SetDefault("scoring.shallow-credit", params.ShallowCredit)
	v.SetDefault("scoring.partial-credit", params.PartialCredit)
	v.SetDefault("scoring.missing-penalty", params.MissingPenalty)
	v.SetDefault("scoring.preferred-weight", params.PreferredWeight)

	v.SetDefault("ai.max-retries", 3)
	v.SetDefault("ai.max-log-length", 200)
}

func initConfig() {
	// A missing .env file is fine; variables may come from the environment itself.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file the built-in defaults apply. An explicit --config must exist.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := scoring.WeightsFromMap(config.Weights); err != nil {
		return nil, fmt.Errorf("invalid config: weights: %w", err)
	}

	return config, nil
}

// viperThresholds reads the tier thresholds from live configuration on every call.
type viperThresholds struct {
	v *viper.Viper
}

func (s viperThresholds) Thresholds() (scoring.Thresholds, error) {
	return scoring.Thresholds{
		StrongHire: s.v.GetInt("thresholds.strong-hire"),
		Hire:       s.v.GetInt("thresholds.hire"),
		Maybe:      s.v.GetInt("thresholds.maybe"),
	}, nil
}
