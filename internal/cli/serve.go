package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raihanp/canvassist/internal/config"
	"github.com/raihanp/canvassist/internal/logger"
	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/canvastools"
	"github.com/raihanp/canvassist/pkg/dispatch"
	"github.com/raihanp/canvassist/pkg/gateway"
	"github.com/raihanp/canvassist/pkg/llm"
	"github.com/raihanp/canvassist/pkg/orchestrator"
	"github.com/raihanp/canvassist/pkg/session"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant gateway",
	Long: `Run the HTTP gateway in the foreground: load configuration, build the
tool catalog against the configured Canvas instance, connect the language
model provider, and serve the session API until SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer lg.Close()
	zlog := lg.GetZerolog()

	m := metrics.NewMetrics()

	client := canvas.New(cfg.Canvas.BaseURL, cfg.Canvas.APIToken, canvas.Options{
		Logger:  zlog,
		Metrics: m,
	})

	registry, err := canvastools.NewRegistry(client, canvastools.Options{
		DefaultAccountID: cfg.Canvas.AccountID,
	})
	if err != nil {
		return fmt.Errorf("failed to build tool catalog: %w", err)
	}
	zlog.Info().Int("tools", registry.Len()).Msg("Tool catalog built")

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create model provider: %w", err)
	}

	sessions, err := session.NewManager(cfg.Sessions.Dir, cfg.Sessions.MaxHistory, m)
	if err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}

	broadcaster := gateway.NewBroadcaster(zlog)

	orch, err := orchestrator.New(orchestrator.Config{
		Sessions:   sessions,
		Registry:   registry,
		Dispatcher: dispatch.New(registry, m),
		Provider:   provider,
		Metrics:    m,
		Events:     broadcaster,
		Logger:     zlog,
		LLM:        cfg.LLM,
	})
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}

	server, err := gateway.NewServer(gateway.Config{
		Host:         cfg.Gateway.Host,
		Port:         cfg.Gateway.Port,
		Orchestrator: orch,
		Sessions:     sessions,
		Registry:     registry,
		Metrics:      m,
		Broadcaster:  broadcaster,
		Logger:       zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}

	cleanup := session.NewCleanup(sessions,
		time.Duration(cfg.Sessions.RetentionHours)*time.Hour,
		cfg.Sessions.CleanupSchedule)
	if err := cleanup.Start(); err != nil {
		return fmt.Errorf("failed to start session cleanup: %w", err)
	}
	defer cleanup.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return <-errCh
}
