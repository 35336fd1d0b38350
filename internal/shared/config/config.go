package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides where the optional YAML file is read from.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"config.yaml", "config.yml"}

// Decision log sink names accepted in DecisionLog.Sinks.
const (
	SinkFile     = "file"
	SinkPostgres = "postgres"
	SinkSQS      = "sqs"
)

// Config holds application configuration.
type Config struct {
	Port                   string        `koanf:"port"`
	Env                    string        `koanf:"env"`
	CORSAllowOrigin        []string      `koanf:"cors_allow_origins"`
	CORSAllowOriginPattern string        `koanf:"cors_allow_origin_pattern"`
	ObjectStoreType        string        `koanf:"object_store"`
	LocalStoreDir          string        `koanf:"local_store_dir"`
	AWSRegion              string        `koanf:"aws_region"`
	S3Bucket               string        `koanf:"s3_bucket"`
	S3Prefix               string        `koanf:"s3_prefix"`
	SSEKMSKeyID            string        `koanf:"sse_kms_key_id"`
	DatabaseURL            string        `koanf:"database_url"`
	MaxUploadBytes         int64         `koanf:"max_upload_bytes"`
	ShutdownTimeout        time.Duration `koanf:"shutdown_timeout"`

	DecisionLog DecisionLogConfig `koanf:"decision_log"`
	Log         LogConfig         `koanf:"log"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
}

// DecisionLogConfig selects and tunes decision log sinks.
type DecisionLogConfig struct {
	Sinks    []string `koanf:"sinks"`
	Path     string   `koanf:"path"`
	Buffer   int      `koanf:"buffer"`
	QueueURL string   `koanf:"queue_url"`
}

// LogConfig controls telemetry output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RateLimitConfig is a per-client token bucket. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Port:                   "8000",
		Env:                    "dev",
		CORSAllowOrigin:        []string{"http://localhost:3000"},
		CORSAllowOriginPattern: `^https://.*\.vercel\.app$`,
		ObjectStoreType:        "local",
		LocalStoreDir:          "./data",
		MaxUploadBytes:         5 << 20,
		ShutdownTimeout:        10 * time.Second,
		DecisionLog: DecisionLogConfig{
			Sinks:  []string{SinkFile},
			Path:   "logs/ai_decisions.jsonl",
			Buffer: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}

// Load layers struct defaults, an optional YAML file and environment
// variables, in increasing priority, then validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	path, err := findFile()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitLists(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.ObjectStoreType == "s3" && c.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required when OBJECT_STORE=s3"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.CORSAllowOriginPattern != "" {
		if _, err := regexp.Compile(c.CORSAllowOriginPattern); err != nil {
			errs = append(errs, fmt.Errorf("CORS_ALLOW_ORIGIN_PATTERN: %w", err))
		}
	}
	for _, s := range c.DecisionLog.Sinks {
		switch s {
		case SinkFile:
		case SinkPostgres:
			if c.DatabaseURL == "" {
				errs = append(errs, errors.New("DATABASE_URL is required for the postgres decision log sink"))
			}
		case SinkSQS:
			if c.DecisionLog.QueueURL == "" {
				errs = append(errs, errors.New("DECISION_QUEUE_URL is required for the sqs decision log sink"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown decision log sink %q", s))
		}
	}
	if c.Env == "production" && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required in production"))
	}
	return errors.Join(errs...)
}

// HasSink reports whether name is an enabled decision log sink.
func (c Config) HasSink(name string) bool {
	for _, s := range c.DecisionLog.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.ObjectStoreType = normalizeStoreType(c.ObjectStoreType)
	for i, s := range c.DecisionLog.Sinks {
		c.DecisionLog.Sinks[i] = strings.ToLower(strings.TrimSpace(s))
	}
}

var envKeys = map[string]string{
	"port":                      "port",
	"env":                       "env",
	"cors_allow_origins":        "cors_allow_origins",
	"cors_allow_origin_pattern": "cors_allow_origin_pattern",
	"object_store":              "object_store",
	"local_store_dir":           "local_store_dir",
	"aws_region":                "aws_region",
	"s3_bucket":                 "s3_bucket",
	"s3_prefix":                 "s3_prefix",
	"sse_kms_key_id":            "sse_kms_key_id",
	"database_url":              "database_url",
	"max_upload_bytes":          "max_upload_bytes",
	"shutdown_timeout":          "shutdown_timeout",
	"decision_log_sinks":        "decision_log.sinks",
	"decision_log_path":         "decision_log.path",
	"decision_log_buffer":       "decision_log.buffer",
	"decision_queue_url":        "decision_log.queue_url",
	"log_level":                 "log.level",
	"log_format":                "log.format",
	"rate_limit_rps":            "rate_limit.rps",
	"rate_limit_burst":          "rate_limit.burst",
}

// envKey maps a known environment variable to its config path. Anything
// else maps to "" and is skipped.
func envKey(key string) string {
	return envKeys[strings.ToLower(key)]
}

var listKeys = []string{"cors_allow_origins", "decision_log.sinks"}

// splitLists turns comma-separated env values into slices. YAML lists are
// left alone.
func splitLists(k *koanf.Koanf) error {
	for _, path := range listKeys {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		if err := k.Set(path, splitAndTrim(raw)); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// findFile returns the explicit config path or the first default path that
// exists. An explicit path must exist.
func findFile() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnvVar)); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("config file %s from %s: %w", p, PathEnvVar, err)
		}
		return p, nil
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := []string{}
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
