package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/config"
	"github.com/spec-kit/coordination-audit/internal/events"
	"github.com/spec-kit/coordination-audit/internal/observability"
	"github.com/spec-kit/coordination-audit/internal/persistence"
	"github.com/spec-kit/coordination-audit/internal/service"
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

type Globals struct {
	Debug   bool
	Version string
}

// env is the state shared by every command.
type env struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *persistence.DirectoryStore
	dispatcher events.Dispatcher
	directory  *service.DirectoryService
	out        io.Writer
}

func setup(ctx context.Context, globals *Globals, directoryFile string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if directoryFile != "" {
		cfg.Directory.Backend = config.DirectoryBackendFile
		cfg.Directory.FilePath = directoryFile
	}

	// Logs go to stderr so stdout carries only command output.
	cfg.Logger.Output = "stderr"
	cfg.Logger.Format = "console"
	if globals.Debug {
		cfg.Logger.Level = "debug"
	} else if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logger.Level = "warn"
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := persistence.OpenDirectoryStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	directory := service.NewDirectoryService(service.DirectoryDependencies{
		Repo:       store.Repo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err := directory.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; continuing with an empty directory\n", err)
	}

	return &env{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		dispatcher: dispatcher,
		directory:  directory,
		out:        stdout,
	}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	e.store.Close()
}
