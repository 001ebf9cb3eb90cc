package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

const (
	SourceSheets   = "sheets"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Secrets SecretsConfig `yaml:"secrets"`
	Scoring ScoringConfig `yaml:"scoring"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port" validate:"min=1,max=65535"`
	MetricsPort        int    `yaml:"metrics_port" validate:"min=1,max=65535"`
	AccessToken        string `yaml:"access_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" validate:"min=0"`
}

type SourceConfig struct {
	Kind      string         `yaml:"kind" validate:"oneof=sheets s3 postgres file"`
	TimeoutMs int            `yaml:"timeout_ms" validate:"min=0"`
	Sheets    SheetsConfig   `yaml:"sheets"`
	S3        S3Config       `yaml:"s3"`
	Postgres  PostgresConfig `yaml:"postgres"`
	File      FileConfig     `yaml:"file"`
}

type SheetsConfig struct {
	SpreadsheetID     string `yaml:"spreadsheet_id"`
	Sheet             string `yaml:"sheet"`
	CredentialsSecret string `yaml:"credentials_secret"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	Region          string `yaml:"region"`
	AccessKeySecret string `yaml:"access_key_secret"`
	SecretKeySecret string `yaml:"secret_key_secret"`
}

type PostgresConfig struct {
	URLSecret string `yaml:"url_secret"`
	Table     string `yaml:"table"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type SecretsConfig struct {
	Provider  string `yaml:"provider" validate:"oneof=env file"`
	Dir       string `yaml:"dir"`
	EnvPrefix string `yaml:"env_prefix"`
}

type ScoringConfig struct {
	Categories      ranking.Weights   `yaml:"categories" validate:"required,min=1,dive"`
	Aliases         map[string]string `yaml:"aliases"`
	FuzzyDistance   int               `yaml:"fuzzy_distance" validate:"min=0,max=3"`
	ExcludeUnscored bool              `yaml:"exclude_unscored"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutMs) * time.Millisecond
}

// DefaultAliases maps the survey form's historical header spellings to
// category names.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Food Quality":     "Food Taste",
		"Ambience ":        "Ambiance",
		"Bathroom Quality": "Bathroom",
		"Food Portion Size (10 = Large, 1 = Small)": "Food Portion Size",
		"Service": "Service",
		"Drinks":  "Drinks",
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Source: SourceConfig{
			Kind:      SourceS3,
			TimeoutMs: 30000,
			Sheets: SheetsConfig{
				CredentialsSecret: "google_credentials",
			},
			S3: S3Config{
				Bucket: "dinner-club-tsw",
				Key:    "dinner_club_rankings.csv",
				Region: "us-east-1",
			},
			Postgres: PostgresConfig{
				URLSecret: "database_url",
				Table:     "dinner_club_responses",
			},
		},
		Secrets: SecretsConfig{
			Provider:  "env",
			EnvPrefix: "DINNERCLUB_SECRET",
		},
		Scoring: ScoringConfig{
			Categories: ranking.DefaultWeights(),
			Aliases:    DefaultAliases(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the settings the chosen source kind needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Scoring.Categories.Validate(); err != nil {
		return fmt.Errorf("invalid config: scoring: %w", err)
	}

	var missing []string
	switch c.Source.Kind {
	case SourceSheets:
		if c.Source.Sheets.SpreadsheetID == "" {
			missing = append(missing, "source.sheets.spreadsheet_id")
		}
		if c.Source.Sheets.CredentialsSecret == "" {
			missing = append(missing, "source.sheets.credentials_secret")
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			missing = append(missing, "source.s3.bucket")
		}
		if c.Source.S3.Key == "" {
			missing = append(missing, "source.s3.key")
		}
		if (c.Source.S3.AccessKeySecret == "") != (c.Source.S3.SecretKeySecret == "") {
			missing = append(missing, "source.s3.access_key_secret and source.s3.secret_key_secret together")
		}
	case SourcePostgres:
		if c.Source.Postgres.URLSecret == "" {
			missing = append(missing, "source.postgres.url_secret")
		}
		if c.Source.Postgres.Table == "" {
			missing = append(missing, "source.postgres.table")
		}
	case SourceFile:
		if c.Source.File.Path == "" {
			missing = append(missing, "source.file.path")
		}
	}
	if c.Secrets.Provider == "file" && c.Secrets.Dir == "" {
		missing = append(missing, "secrets.dir")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: %s required", strings.Join(missing, ", "))
	}
	return nil
}

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DINNERCLUB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DINNERCLUB_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("DINNERCLUB_ACCESS_TOKEN"); v != "" {
		cfg.Server.AccessToken = v
	}
	if v := os.Getenv("DINNERCLUB_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("DINNERCLUB_SOURCE_KIND"); v != "" {
		cfg.Source.Kind = v
	}
	if v := os.Getenv("DINNERCLUB_SOURCE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Source.TimeoutMs = n
		}
	}
	if v := os.Getenv("DINNERCLUB_SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Source.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("DINNERCLUB_SHEETS_SHEET"); v != "" {
		cfg.Source.Sheets.Sheet = v
	}
	if v := os.Getenv("DINNERCLUB_S3_BUCKET"); v != "" {
		cfg.Source.S3.Bucket = v
	}
	if v := os.Getenv("DINNERCLUB_S3_KEY"); v != "" {
		cfg.Source.S3.Key = v
	}
	if v := os.Getenv("DINNERCLUB_S3_REGION"); v != "" {
		cfg.Source.S3.Region = v
	}
	if v := os.Getenv("DINNERCLUB_POSTGRES_TABLE"); v != "" {
		cfg.Source.Postgres.Table = v
	}
	if v := os.Getenv("DINNERCLUB_FILE_PATH"); v != "" {
		cfg.Source.File.Path = v
	}
	if v := os.Getenv("DINNERCLUB_SECRETS_PROVIDER"); v != "" {
		cfg.Secrets.Provider = v
	}
	if v := os.Getenv("DINNERCLUB_SECRETS_DIR"); v != "" {
		cfg.Secrets.Dir = v
	}
	if v := os.Getenv("DINNERCLUB_EXCLUDE_UNSCORED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.ExcludeUnscored = b
		}
	}
	if v := os.Getenv("DINNERCLUB_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("DINNERCLUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DINNERCLUB_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
