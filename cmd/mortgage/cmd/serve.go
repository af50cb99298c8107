package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mortgage/internal/cache"
	"mortgage/internal/cli"
	"mortgage/internal/form"
	apphttp "mortgage/internal/http"
	applog "mortgage/internal/log"
	"mortgage/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web calculator",
	Long: `Start the HTMX web calculator and the JSON API.

Configuration is read from the environment (PORT, LOG_LEVEL, SESSION_TTL,
SESSION_MAX, RATE_LIMIT_PER_MINUTE, AMQP_URL, ...). A .env file is loaded
first when present.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	if err := cli.LoadEnvFile(envFile); err != nil {
		printError("env file", err)
		return err
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		printError("configuration", err)
		return err
	}

	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", cfg.LogLevel)
	}
	logger = logger.WithComponent(applog.ComponentApp)

	events, err := cli.InitEventSink(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher", applog.FieldError, err)
		return err
	}

	calculator := services.NewCalculatorService(logger, events)

	sessions := cache.NewLRUCache[*form.Controller](cfg.SessionMax, cfg.SessionTTL)
	sessions.OnEvict(func(id string, c *form.Controller) {
		logger.Debug("Session evicted",
			applog.FieldSessionID, id,
			applog.FieldRevision, c.Revision())
	})
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(sessions)
	cacheManager.StartCleanup(time.Minute)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Logger:             logger,
		Calculator:         calculator,
		Sessions:           sessions,
		SessionTTL:         cfg.SessionTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		cacheManager.Stop()
		_ = calculator.Close()
		logger.Error("Failed to create server", applog.FieldError, err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting mortgage server",
			"port", cfg.Port,
			"session_max", humanize.Comma(int64(cfg.SessionMax)),
			"session_ttl", cfg.SessionTTL.String(),
			"amqp", cfg.AMQPEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		cacheManager.Stop()
		if cerr := calculator.Close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
