package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like REASONING_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when not present.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "resume-match-engine"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.HTTP.ListenAddress == "" {
		cfg.HTTP.ListenAddress = ":8080"
	}

	s := &cfg.Scoring
	if s.HardWeight == 0 && s.SoftWeight == 0 && s.ReasoningWeight == 0 {
		s.HardWeight = 0.4
		s.SoftWeight = 0.3
		s.ReasoningWeight = 0.3
	}
	if s.SkillsWeight == 0 && s.KeywordsWeight == 0 && s.TFIDFWeight == 0 && s.BM25Weight == 0 {
		s.SkillsWeight = 0.4
		s.KeywordsWeight = 0.3
		s.TFIDFWeight = 0.15
		s.BM25Weight = 0.15
	}
	if s.ExcellentBoundary == 0 {
		s.ExcellentBoundary = 85
	}
	if s.GoodBoundary == 0 {
		s.GoodBoundary = 70
	}
	if s.FairBoundary == 0 {
		s.FairBoundary = 50
	}

	r := &cfg.Reasoning
	if r.Timeout == 0 {
		r.Timeout = 30 * time.Second
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = 1
	}
	if r.CacheTTL == 0 {
		r.CacheTTL = 10 * time.Minute
	}

	b := &cfg.Batch
	if b.PoolSize == 0 {
		b.PoolSize = 4
	}
	if b.ReasoningInFlight == 0 {
		b.ReasoningInFlight = 2
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 60000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "analysis-records"
	}
}

func validateConfig(cfg *Config) error {
	if err := cfg.Scoring.Validate(); err != nil {
		return err
	}
	if cfg.Batch.PoolSize < 1 {
		return fmt.Errorf("batch pool_size must be >= 1")
	}
	if cfg.Batch.ReasoningInFlight < 1 {
		return fmt.Errorf("batch reasoning_in_flight must be >= 1")
	}
	if cfg.Reasoning.Timeout <= 0 {
		return fmt.Errorf("reasoning timeout must be positive")
	}
	return nil
}
