// Package config provides hierarchical configuration loading for replydesk.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the replydesk service.
type Config struct {
	Server   Server   `yaml:"server"`
	LLM      LLM      `yaml:"llm"`
	Pipeline Pipeline `yaml:"pipeline"`
	Store    Store    `yaml:"store"`
	Telegram Telegram `yaml:"telegram"`
	NATS     NATS     `yaml:"nats"`
	Cache    Cache    `yaml:"cache"`
	Notify   Notify   `yaml:"notify"`
	Logging  Logging  `yaml:"logging"`
	Breaker  Breaker  `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// LLM holds the chat completions endpoint configuration.
type LLM struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Pipeline holds the revision-loop configuration.
type Pipeline struct {
	EvaluatorThreshold  float64 `yaml:"evaluator_threshold"`  // Minimum overall score for automatic approval
	ConfidenceThreshold float64 `yaml:"confidence_threshold"` // Minimum self-reported confidence
	MaxIterations       int     `yaml:"max_iterations"`       // Generate-then-score cycles per message
	MaxConcurrent       int     `yaml:"max_concurrent"`       // Concurrent message flows
	AckMessage          string  `yaml:"ack_message"`          // Canned reply for escalated messages
}

// Store holds file paths for durable state.
type Store struct {
	PendingFile string `yaml:"pending_file"`
	AuditFile   string `yaml:"audit_file"`
	ProfileFile string `yaml:"profile_file"`
}

// Telegram holds the Telegram bot notifier configuration.
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// NATS holds the event-bus notifier configuration. Empty URL disables it.
type NATS struct {
	URL string `yaml:"url"`
}

// Cache holds outcome-deduplication cache configuration. Zero size disables it.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	DedupeTTL time.Duration `yaml:"dedupe_ttl"`
}

// Notify holds the async notification dispatcher configuration.
type Notify struct {
	QueueSize int `yaml:"queue_size"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker configuration for LLM calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		LLM: LLM{
			URL:     "http://localhost:4000",
			Model:   "openai/gpt-4o",
			Timeout: 60 * time.Second,
		},
		Pipeline: Pipeline{
			EvaluatorThreshold:  0.75,
			ConfidenceThreshold: 0.4,
			MaxIterations:       3,
			MaxConcurrent:       8,
			AckMessage:          "Your message has been received. A human will get back to you shortly.",
		},
		Store: Store{
			PendingFile: "data/pending_items.json",
			AuditFile:   "data/events.jsonl",
			ProfileFile: "data/cv_profile.json",
		},
		Cache: Cache{
			MaxSizeMB: 16,
			DedupeTTL: 10 * time.Minute,
		},
		Notify: Notify{
			QueueSize: 256,
		},
		Logging: Logging{
			Level:   "info",
			Service: "replydesk",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}
