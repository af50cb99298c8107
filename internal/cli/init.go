// Package cli provides the initialization steps shared by the mortgage
// subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mortgage/internal/amqp"
	"mortgage/internal/config"
	applog "mortgage/internal/log"
	"mortgage/internal/services"
	"mortgage/internal/worker"
)

const (
	publishBuffer  = 256
	publishTimeout = 5 * time.Second
)

// SetupLogger builds the root logger at the named level and installs it as
// the slog default.
func SetupLogger(level string) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger, err
}

// LoadEnvFile loads .env files for local development. Missing files are not
// an error; a malformed one is. Variables already set in the environment win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitEventSink connects the recompute publisher when AMQP is configured.
// It returns nil, nil when publishing is disabled.
func InitEventSink(cfg *config.Config, logger *applog.Logger) (services.EventSink, error) {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP disabled, recompute events will only be logged")
		return nil, nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	logger.Info("AMQP publisher connected",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	return &closingSink{
		PublishWorker: worker.NewPublishWorker(client, logger, publishBuffer, publishTimeout),
		client:        client,
		logger:        logger,
	}, nil
}

// closingSink drains the worker before closing the broker connection.
type closingSink struct {
	*worker.PublishWorker
	client *amqp.Client
	logger *applog.Logger
}

func (s *closingSink) Stop() {
	s.PublishWorker.Stop()
	stats := s.PublishWorker.Stats()
	s.logger.Info("Publish worker stopped",
		"published", stats.Published,
		"failed", stats.Failed,
		"dropped", stats.Dropped)
	if err := s.client.Close(); err != nil {
		s.logger.Warn("Failed to close AMQP client", applog.FieldError, err)
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
