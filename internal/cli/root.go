// Package cli implements the fittrack command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/bootstrap"
	"github.com/a010145456/FitTrackApp/internal/config"
	"github.com/a010145456/FitTrackApp/internal/domain"
	"github.com/a010145456/FitTrackApp/internal/logging"
)

// ErrEphemeralStore is returned when a command would run against the in-memory
// backend without --ephemeral. Each fittrack invocation opens its own store, so
// nothing written there is visible to the next command.
var ErrEphemeralStore = errors.New("the memory backend does not persist between fittrack commands")

// ServiceFactory opens an exercise service and returns a function releasing it.
type ServiceFactory func(ctx context.Context, cfg config.Config, logger *zap.Logger) (*domain.Service, func(), error)

type app struct {
	cfg         config.Config
	openService ServiceFactory

	backend   string
	verbose   bool
	ephemeral bool
}

// NewRootCommand builds the command tree over the configured store.
func NewRootCommand(cfg config.Config) *cobra.Command {
	return newRootCommand(cfg, openConfiguredService)
}

func newRootCommand(cfg config.Config, factory ServiceFactory) *cobra.Command {
	a := &app{cfg: cfg, openService: factory}

	root := &cobra.Command{
		Use:           "fittrack",
		Short:         "Record and review exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "document store backend (memory, postgres, mongo, dgraph); overrides STORE_BACKEND")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "allow the memory backend; data is discarded when the command exits")

	root.AddCommand(
		a.addCommand(),
		a.listCommand(),
		a.modifyCommand(),
		a.deleteCommand(),
		a.tokenCommand(),
	)
	return root
}

// withService runs fn against a freshly opened service.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *domain.Service, out io.Writer) error) error {
	logger, err := logging.NewConsole(a.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := a.cfg
	if a.backend != "" {
		cfg.StoreBackend = a.backend
	}
	if cfg.StoreBackend == config.BackendMemory {
		if !a.ephemeral {
			return fmt.Errorf("%w; set STORE_BACKEND or --backend to postgres, mongo or dgraph, or pass --ephemeral", ErrEphemeralStore)
		}
		logger.Warn("memory backend selected; changes are discarded when the command exits")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := a.openService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, svc, cmd.OutOrStdout())
}

func openConfiguredService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*domain.Service, func(), error) {
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	pub := bootstrap.NewPublisher(cfg, "fittrack-cli", logger)
	release := func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}
	return bootstrap.NewService(store, cfg, pub, logger), release, nil
}
