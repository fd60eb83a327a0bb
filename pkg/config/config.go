package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "WEEKDAY"

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string `envconfig:"ENV" default:"development"` // development, staging, production

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	// 섹션별 구조체는 같은 prefix로 따로 처리함 (WEEKDAY_INPUT_PATH, not WEEKDAY_INPUT_INPUT_PATH)
	Input    InputConfig    `ignored:"true"`
	Analysis AnalysisConfig `ignored:"true"`
	Output   OutputConfig   `ignored:"true"`

	// Database (optional postgres source)
	Database DatabaseConfig `ignored:"true"`

	// HTTP (remote sector HTML)
	HTTP HTTPConfig `ignored:"true"`

	// Redis (optional cache of remote sector pages)
	Redis RedisConfig `ignored:"true"`

	// Schedule (weekday schedule command)
	Schedule ScheduleConfig `ignored:"true"`
}

// InputConfig holds input discovery settings
type InputConfig struct {
	// Source selects the table backend: file or postgres
	Source string `envconfig:"SOURCE" default:"file"`
	// Path is an explicit table path; empty means candidate discovery
	Path string `envconfig:"INPUT_PATH"`
	// File is the table file name probed in each of Dirs
	File string `envconfig:"INPUT_FILE" default:"dataset.csv"`
	// Dirs are probed in order; empty entries mean "next to the executable"
	Dirs       []string `envconfig:"INPUT_DIRS" default:",.,/mnt/user-data/uploads"`
	SectorPath string   `envconfig:"SECTOR_PATH" default:"sector_mapping.txt"`
	SchemaPath string   `envconfig:"SCHEMA_PATH"`
	Sheet      string   `envconfig:"INPUT_SHEET"`
}

// AnalysisConfig holds the knobs of the ambiguous behaviours
type AnalysisConfig struct {
	DateOrder   string `envconfig:"DATE_ORDER" default:"lexical"`   // lexical, chronological
	LatestPrice string `envconfig:"LATEST_PRICE" default:"schema"`  // schema, chronological
	TierSizes   []int  `envconfig:"TIER_SIZES" default:"10,50,100"` // 시가총액 구간 (Top N)
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir       string `envconfig:"OUTPUT_DIR" default:"."`
	ExportCSV bool   `envconfig:"EXPORT_CSV" default:"false"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL"`

	// Connection Pool
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// HTTPConfig holds the HTTP client settings used for remote sector pages
type HTTPConfig struct {
	Timeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	MaxRetries int           `envconfig:"HTTP_MAX_RETRIES" default:"3"`
	RateLimit  float64       `envconfig:"HTTP_RATE_LIMIT" default:"5"` // requests/sec, 0 = unlimited
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"24h"` // 섹터 페이지 캐시 유지 시간
}

// ScheduleConfig holds the cron settings of scheduled runs
type ScheduleConfig struct {
	Cron       string        `envconfig:"SCHEDULE_CRON" default:"0 0 18 * * 1-5"` // 평일 18:00 (초 포함)
	MaxRetries int           `envconfig:"SCHEDULE_MAX_RETRIES" default:"3"`
	RetryDelay time.Duration `envconfig:"SCHEDULE_RETRY_DELAY" default:"1m"`
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 환경변수를 읽음
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{}
	sections := []interface{}{cfg, &cfg.Input, &cfg.Analysis, &cfg.Output, &cfg.Database, &cfg.HTTP, &cfg.Redis, &cfg.Schedule}
	for _, section := range sections {
		if err := envconfig.Process(EnvPrefix, section); err != nil {
			return nil, fmt.Errorf("process env: %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
		Input: InputConfig{
			Source:     "file",
			File:       "dataset.csv",
			Dirs:       []string{"", ".", "/mnt/user-data/uploads"},
			SectorPath: "sector_mapping.txt",
		},
		Analysis: AnalysisConfig{
			DateOrder:   "lexical",
			LatestPrice: "schema",
			TierSizes:   []int{10, 50, 100},
		},
		Output: OutputConfig{Dir: "."},
		Database: DatabaseConfig{
			MaxConns:        4,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RateLimit:  5,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  24 * time.Hour,
		},
		Schedule: ScheduleConfig{
			Cron:       "0 0 18 * * 1-5",
			MaxRetries: 3,
			RetryDelay: time.Minute,
		},
	}
}

// InputCandidates expands Input.Dirs into candidate table paths
func (c *Config) InputCandidates() []string {
	candidates := make([]string, 0, len(c.Input.Dirs))
	for _, dir := range c.Input.Dirs {
		if dir == "" {
			exe, err := os.Executable()
			if err != nil {
				continue
			}
			dir = filepath.Dir(exe)
		}
		if dir == "." {
			candidates = append(candidates, c.Input.File)
			continue
		}
		candidates = append(candidates, filepath.Join(dir, c.Input.File))
	}
	return candidates
}

// Validate checks if configuration values are usable
func (c *Config) Validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.DateOrder != "lexical" && c.Analysis.DateOrder != "chronological" {
		return fmt.Errorf("DATE_ORDER must be one of: lexical, chronological")
	}
	if c.Analysis.LatestPrice != "schema" && c.Analysis.LatestPrice != "chronological" {
		return fmt.Errorf("LATEST_PRICE must be one of: schema, chronological")
	}
	for _, n := range c.Analysis.TierSizes {
		if n <= 0 {
			return fmt.Errorf("TIER_SIZES must be positive, got %d", n)
		}
	}

	if c.Input.Source != "file" && c.Input.Source != "postgres" {
		return fmt.Errorf("SOURCE must be one of: file, postgres")
	}

	if c.HTTP.MaxRetries < 0 || c.HTTP.RateLimit < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES and HTTP_RATE_LIMIT must not be negative")
	}

	if c.Input.Path == "" && c.Input.File == "" {
		return fmt.Errorf("INPUT_PATH or INPUT_FILE is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}
