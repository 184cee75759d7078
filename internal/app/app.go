package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/config"
	"github.com/heartmarshall/solutions-manager/internal/observability"
	"github.com/heartmarshall/solutions-manager/internal/service/filter"
	"github.com/heartmarshall/solutions-manager/internal/service/session"
	"github.com/heartmarshall/solutions-manager/internal/service/solution"
	"github.com/heartmarshall/solutions-manager/internal/transport/console"
	"github.com/heartmarshall/solutions-manager/internal/view"
)

// Options configures Run.
type Options struct {
	// ConfigPath is the YAML config file. Empty falls back to CONFIG_PATH and
	// then ./config.yaml.
	ConfigPath string
	In         io.Reader
	Out        io.Writer
}

// Run is the application entry point. It loads configuration, initializes
// the logger, opens the collaborators of the configured backend and runs the
// console until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("backend", string(cfg.Backend)),
		slog.String("log_level", cfg.Log.Level),
	)

	b, err := openBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("open backend", slog.String("error", err.Error()))
		return err
	}
	defer b.close()

	metrics := observability.NewMetrics()
	prompt := console.NewPrompter(opts.In, opts.Out)

	store := solution.NewStore(logger, b.repo, prompt, metrics)
	sess := session.NewManager(logger, b.auth, metrics)
	defer sess.Close()

	coord := view.NewCoordinator(logger, sess, store, filter.NewEngine(logger))
	con := console.New(logger, coord, prompt, opts.Out, metrics, cfg.Console.Color)

	if err := con.Run(ctx); err != nil {
		logger.Error("console stopped", slog.String("error", err.Error()))
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// Migrate applies the embedded schema migrations to the configured database.
func Migrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Backend != config.BackendPostgres {
		return fmt.Errorf("migrate: backend %q manages its own schema", cfg.Backend)
	}

	logger, closeLog, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	applied, err := migrate(ctx, logger, cfg)
	if err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("migrations complete", slog.Int("applied", len(applied)))
	return nil
}
