package config

import (
	"fmt"
	"math"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Camunda       CamundaConfig      `mapstructure:"camunda"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Scoring       ScoringConfig      `mapstructure:"scoring"`
	Reasoning     ReasoningConfig    `mapstructure:"reasoning"`
	Batch         BatchConfig        `mapstructure:"batch"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	HTTP          HTTPConfig         `mapstructure:"http"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// CamundaConfig configures the optional Zeebe worker surface used by ATS
// workflow integrations.
type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ScoringConfig holds the weight policy and classification boundaries.
// Weight groups must sum to 1.0; violations fail at config load.
type ScoringConfig struct {
	HardWeight      float64 `mapstructure:"hard_weight"`
	SoftWeight      float64 `mapstructure:"soft_weight"`
	ReasoningWeight float64 `mapstructure:"reasoning_weight"`

	SkillsWeight   float64 `mapstructure:"skills_weight"`
	KeywordsWeight float64 `mapstructure:"keywords_weight"`
	TFIDFWeight    float64 `mapstructure:"tfidf_weight"`
	BM25Weight     float64 `mapstructure:"bm25_weight"`

	ExcellentBoundary float64 `mapstructure:"excellent_boundary"`
	GoodBoundary      float64 `mapstructure:"good_boundary"`
	FairBoundary      float64 `mapstructure:"fair_boundary"`
}

// ReasoningConfig configures the external reasoning-model service call.
type ReasoningConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// BatchConfig bounds the batch analysis worker pool. ReasoningInFlight caps
// concurrent reasoning-service calls across the whole pool.
type BatchConfig struct {
	PoolSize          int `mapstructure:"pool_size"`
	ReasoningInFlight int `mapstructure:"reasoning_in_flight"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
	Recipients []string `mapstructure:"recipients"`
}

type HTTPConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

const weightEpsilon = 1e-6

// Validate enforces the weight-sum invariant on both weight groups.
func (s ScoringConfig) Validate() error {
	if sum := s.HardWeight + s.SoftWeight + s.ReasoningWeight; math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	if sum := s.SkillsWeight + s.KeywordsWeight + s.TFIDFWeight + s.BM25Weight; math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("hard-match sub-weights must sum to 1.0, got %.4f", sum)
	}
	if !(s.ExcellentBoundary > s.GoodBoundary && s.GoodBoundary > s.FairBoundary && s.FairBoundary > 0) {
		return fmt.Errorf("classification boundaries must be strictly descending and positive")
	}
	return nil
}
