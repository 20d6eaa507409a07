package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	rdhttp "replydesk/internal/adapter/http"
	"replydesk/internal/adapter/jsonfile"
	"replydesk/internal/adapter/litellm"
	"replydesk/internal/adapter/natsbus"
	otelx "replydesk/internal/adapter/otel"
	"replydesk/internal/adapter/ristretto"
	"replydesk/internal/adapter/telegram"
	"replydesk/internal/config"
	"replydesk/internal/domain/profile"
	"replydesk/internal/domain/risk"
	"replydesk/internal/domain/scoring"
	"replydesk/internal/logger"
	"replydesk/internal/middleware"
	"replydesk/internal/port/cache"
	"replydesk/internal/port/notifier"
	"replydesk/internal/resilience"
	"replydesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"llm_model", cfg.LLM.Model,
		"max_iterations", cfg.Pipeline.MaxIterations,
	)

	// --- Durable state ---

	cv, err := profile.Load(cfg.Store.ProfileFile)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if cv.Empty() {
		slog.Warn("cv profile is empty, responses will be generic", "path", cfg.Store.ProfileFile)
	}

	store := jsonfile.NewPendingStore(cfg.Store.PendingFile)
	audit := jsonfile.NewAuditLog(cfg.Store.AuditFile)

	var outcomes cache.Cache
	if cfg.Cache.MaxSizeMB > 0 {
		c, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer c.Close()
		outcomes = c
	}

	// --- Notifiers ---

	notifiers := []notifier.Notifier{
		telegram.NewNotifier(telegram.DefaultAPIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID),
	}
	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer bus.Close()
		notifiers = append(notifiers, bus)
	}

	notify := service.NewNotificationService(notifiers, cfg.Notify.QueueSize)
	defer notify.Close()

	// --- LLM capabilities ---

	llm := litellm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	llm.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	gen := litellm.NewGenerator(llm, cv, cfg.Pipeline.EvaluatorThreshold)
	eval := litellm.NewEvaluator(llm, cfg.Pipeline.EvaluatorThreshold)

	// --- Services ---

	metrics, err := otelx.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	classifier := risk.NewClassifier(cfg.Pipeline.ConfidenceThreshold)
	policy := scoring.Policy{Threshold: cfg.Pipeline.EvaluatorThreshold}

	dispatch := service.NewDispatchService(
		classifier, policy, gen, eval,
		store, notify, audit, outcomes, metrics,
		service.DispatchConfig{
			MaxIterations: cfg.Pipeline.MaxIterations,
			MaxConcurrent: cfg.Pipeline.MaxConcurrent,
			AckMessage:    cfg.Pipeline.AckMessage,
			DedupeTTL:     cfg.Cache.DedupeTTL,
		},
	)
	pendingSvc := service.NewPendingService(store, notify, audit)

	// --- HTTP ---

	handlers := rdhttp.NewHandlers(dispatch, pendingSvc, audit)

	r := chi.NewRouter()

	r.Use(rdhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(rdhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * time.Minute))
	r.Use(otelx.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/health", healthHandler(cfg))

	rdhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler returns an http.HandlerFunc that reports service health.
func healthHandler(cfg *config.Config) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		LLM      string `json:"llm"`
		NATS     string `json:"nats,omitempty"`
		Telegram bool   `json:"telegram_configured"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:   "ok",
			LLM:      cfg.LLM.URL,
			NATS:     cfg.NATS.URL,
			Telegram: cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
