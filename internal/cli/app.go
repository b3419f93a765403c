// Package cli implements the servicepack command line: browsing the catalog,
// composing and saving service packages, and managing saved records.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/domain/catalog"
	"github.com/erp/servicepack/internal/infrastructure/config"
	"github.com/erp/servicepack/internal/infrastructure/logger"
	"github.com/erp/servicepack/internal/infrastructure/notify"
	"github.com/erp/servicepack/internal/infrastructure/store"
	"github.com/erp/servicepack/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the services used by the commands. Fields left nil are wired
// from configuration before the first command runs.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Catalog *catalog.Catalog
	Builder *appservicepack.Builder
	Router  *appservicepack.InsertionRouter

	closers []func(context.Context) error
}

type rootOptions struct {
	configPath     string
	driver         string
	logLevel       string
	assumeYes      bool
	memoryFallback bool
}

func (a *App) servicesReady() bool {
	return a.Builder != nil && a.Router != nil && a.Catalog != nil
}

// loadConfig reads configuration and sets up logging and the catalog
func (a *App) loadConfig(opts rootOptions) error {
	if a.Config == nil {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if opts.driver != "" {
		a.Config.Store.Driver = opts.driver
	}
	if opts.logLevel != "" {
		a.Config.Log.Level = opts.logLevel
	}

	if a.Logger == nil {
		log, err := logger.New(logger.FromAppConfig(a.Config.Log))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = log
		a.closers = append(a.closers, func(context.Context) error {
			_ = log.Sync()
			return nil
		})
	}

	if a.Catalog == nil {
		cat := catalog.Builtin()
		if path := a.Config.Catalog.Path; path != "" {
			loaded, err := catalog.LoadFile(path, cat)
			if err != nil {
				return err
			}
			a.Logger.Info("catalog override loaded", zap.String("path", path))
			cat = loaded
		}
		a.Catalog = cat
	}
	return nil
}

// openServices opens the store and wires the builder and router
func (a *App) openServices(ctx context.Context, opts rootOptions, in io.Reader, out, errOut io.Writer) error {
	if a.servicesReady() {
		return nil
	}

	handle, err := store.NewFactory(a.Config,
		store.WithLogger(a.Logger),
		store.WithMemoryFallback(opts.memoryFallback),
	).Open(ctx)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return handle.Close() })

	mp, err := telemetry.NewMeterProvider(ctx, a.Config.Telemetry, a.Logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, mp.Shutdown)
	metrics, err := telemetry.NewBuilderMetrics(mp.Meter("servicepack"))
	if err != nil {
		return err
	}

	notifiers := notify.Notifiers{notify.NewConsoleNotifier(out)}
	if a.Config.Log.Format == "json" {
		notifiers = append(notifiers, notify.NewLogNotifier(a.Logger))
	}
	confirmer := notify.NewPromptConfirmer(in, errOut,
		notify.WithAssumeYes(opts.assumeYes),
		notify.WithConfirmLogger(a.Logger),
	)

	builder, err := appservicepack.NewBuilder(handle.Store, confirmer, notifiers,
		appservicepack.WithLogger(a.Logger.Named("builder")),
		appservicepack.WithMetrics(metrics),
		appservicepack.WithLaborRate(a.Config.Pricing.LaborRatePerHour),
		appservicepack.WithOperator(a.Config.App.Operator),
	)
	if err != nil {
		return err
	}
	a.Builder = builder
	a.Router = appservicepack.NewInsertionRouter(a.Catalog, a.Logger.Named("router"), metrics)
	return nil
}

// Close releases everything opened by the app, newest first
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// commandContext returns the command's context carrying the app logger and
// the configured operator
func commandContext(cmd *cobra.Command, app *App) context.Context {
	ctx := logger.WithContext(cmd.Context(), app.log())
	if app.Config != nil {
		ctx = logger.WithOperator(ctx, app.Config.App.Operator)
	}
	return ctx
}

func (a *App) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
