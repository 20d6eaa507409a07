package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "replydesk.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "REPLYDESK_PORT")
	setString(&cfg.Server.CORSOrigin, "REPLYDESK_CORS_ORIGIN")
	setString(&cfg.LLM.URL, "REPLYDESK_LLM_URL")
	setString(&cfg.LLM.APIKey, "REPLYDESK_LLM_API_KEY")
	setString(&cfg.LLM.Model, "REPLYDESK_LLM_MODEL")
	setDuration(&cfg.LLM.Timeout, "REPLYDESK_LLM_TIMEOUT")
	setFloat64(&cfg.Pipeline.EvaluatorThreshold, "REPLYDESK_EVALUATOR_THRESHOLD")
	setFloat64(&cfg.Pipeline.ConfidenceThreshold, "REPLYDESK_CONFIDENCE_THRESHOLD")
	setInt(&cfg.Pipeline.MaxIterations, "REPLYDESK_MAX_ITERATIONS")
	setInt(&cfg.Pipeline.MaxConcurrent, "REPLYDESK_MAX_CONCURRENT")
	setString(&cfg.Pipeline.AckMessage, "REPLYDESK_ACK_MESSAGE")
	setString(&cfg.Store.PendingFile, "REPLYDESK_PENDING_FILE")
	setString(&cfg.Store.AuditFile, "REPLYDESK_AUDIT_FILE")
	setString(&cfg.Store.ProfileFile, "REPLYDESK_PROFILE_FILE")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.MaxSizeMB, "REPLYDESK_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.DedupeTTL, "REPLYDESK_DEDUPE_TTL")
	setInt(&cfg.Notify.QueueSize, "REPLYDESK_NOTIFY_QUEUE_SIZE")
	setString(&cfg.Logging.Level, "REPLYDESK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "REPLYDESK_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "REPLYDESK_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "REPLYDESK_BREAKER_TIMEOUT")
}

// validate checks that required fields are set and bounds hold.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.LLM.URL == "" {
		return errors.New("llm.url is required")
	}
	if cfg.Pipeline.EvaluatorThreshold <= 0 || cfg.Pipeline.EvaluatorThreshold > 1 {
		return errors.New("pipeline.evaluator_threshold must be in (0, 1]")
	}
	if cfg.Pipeline.ConfidenceThreshold < 0 || cfg.Pipeline.ConfidenceThreshold > 1 {
		return errors.New("pipeline.confidence_threshold must be in [0, 1]")
	}
	if cfg.Pipeline.MaxIterations < 1 {
		return errors.New("pipeline.max_iterations must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
