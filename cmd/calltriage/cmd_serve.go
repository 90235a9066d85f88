package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/calltriage/internal/intake"
	"github.com/user/calltriage/internal/notify"
	"github.com/user/calltriage/internal/scheduler"
	"github.com/user/calltriage/internal/state"
	"github.com/user/calltriage/internal/triage"
	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/internal/webhook"
	"github.com/user/calltriage/pkg/llm"
	"github.com/user/calltriage/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the triage HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	// Stores
	calls := state.NewCallStore()
	appointments := state.NewAppointmentStore(calls)

	// LLM provider (strict-JSON output)
	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Format:      llm.JSONObject(),
	})

	// Classifier gateway
	classifier := triage.New(provider, triage.Options{
		KeyConfigured:       cfg.LLM.APIKey != "",
		Timeout:             time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxConcurrent:       int64(cfg.LLM.MaxConcurrent),
		Model:               cfg.LLM.Model,
		MaxTranscriptTokens: cfg.LLM.MaxTranscriptTokens,
	})

	// Operator alerting
	registry := notify.NewRegistry()
	alertChannel := ""
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		adapter, err := notify.NewTelegram(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		registry.Register("telegram:", adapter.Send)
		alertChannel = fmt.Sprintf("telegram:%d", cfg.Telegram.ChatID)
		slog.Info("telegram alerting enabled")
	} else {
		slog.Warn("telegram alerting disabled (no token or chat id)")
	}

	var pipelineOpts []intake.Option
	if alertChannel != "" {
		pipelineOpts = append(pipelineOpts, intake.WithOnEmergency(func(rec *types.CallRecord) {
			if err := registry.Deliver(alertChannel, notify.EmergencyAlert(rec)); err != nil {
				slog.Error("emergency alert delivery failed", "call_id", rec.ID, "error", err)
			}
		}))
	}

	pipeline := intake.New(classifier, calls, pipelineOpts...)

	// Callback digest
	var digestNotify scheduler.Notify
	if alertChannel != "" {
		digestNotify = func(message string) error {
			return registry.Deliver(alertChannel, message)
		}
	}
	digest := scheduler.New(calls, cfg.Digest.Schedule, digestNotify)
	if err := digest.Start(); err != nil {
		return fmt.Errorf("start digest: %w", err)
	}
	defer digest.Stop()

	// HTTP server
	srv := webhook.NewServer(pipeline, calls, appointments)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("calltriage started",
			"listen", cfg.Listen,
			"log_level", cfg.LogLevel,
			"llm_model", cfg.LLM.Model,
			"llm_key_configured", cfg.LLM.APIKey != "",
			"digest_schedule", cfg.Digest.Schedule,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
