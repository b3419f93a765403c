// Package store opens the service package store selected by configuration.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/cache"
	"github.com/erp/servicepack/internal/infrastructure/config"
	"github.com/erp/servicepack/internal/infrastructure/migration"
	"github.com/erp/servicepack/internal/infrastructure/persistence"
	"github.com/erp/servicepack/internal/infrastructure/storage"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Factory creates stores based on configuration
type Factory struct {
	cfg                 *config.Config
	logger              *zap.Logger
	allowMemoryFallback bool
	runMigrations       bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the stores it opens
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMemoryFallback controls whether an unreachable Redis falls back to the
// in-memory store. Default is false.
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowMemoryFallback = allow
	}
}

// WithMigrations controls whether postgres schema migrations run on open.
// Default is true.
func WithMigrations(run bool) FactoryOption {
	return func(f *Factory) {
		f.runMigrations = run
	}
}

// NewFactory creates a new factory
func NewFactory(cfg *config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:           cfg,
		logger:        zap.NewNop(),
		runMigrations: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle is an open store and the resources behind it
type Handle struct {
	Store  servicepack.Store
	Driver string
	closer func() error
}

// Atomic reports whether the store replaces both lists in one write
func (h *Handle) Atomic() bool {
	_, ok := h.Store.(servicepack.AtomicStore)
	return ok
}

// Close releases the store's connections
func (h *Handle) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer()
}

// Open opens the store named by store.driver
func (f *Factory) Open(ctx context.Context) (*Handle, error) {
	driver := f.cfg.Store.Driver
	switch driver {
	case config.DriverMemory:
		return f.openMemory(), nil
	case config.DriverSQLite, config.DriverPostgres:
		return f.openDatabase(driver)
	case config.DriverRedis:
		return f.openRedis(ctx)
	case config.DriverS3:
		return f.openS3(ctx)
	}
	return nil, fmt.Errorf("unsupported store driver %q", driver)
}

func (f *Factory) openMemory() *Handle {
	f.logger.Warn("using in-memory store, service packages are lost on exit")
	return &Handle{Store: persistence.NewMemoryStore(), Driver: config.DriverMemory}
}

func (f *Factory) openDatabase(driver string) (*Handle, error) {
	db, err := persistence.NewDatabase(driver, &f.cfg.Database, f.logger.Named("sql"), f.cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	if err := f.prepareSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	f.logger.Info("using database store", zap.String("driver", driver))
	return &Handle{Store: persistence.NewGormStore(db.DB), Driver: driver, closer: db.Close}, nil
}

func (f *Factory) prepareSchema(db *persistence.Database) error {
	if db.Driver == config.DriverSQLite {
		return db.AutoMigrate()
	}
	if !f.runMigrations {
		return nil
	}
	return Migrate(f.cfg.Database, f.logger.Named("migrate"), func(m *migration.Migrator) error {
		return m.Up()
	})
}

// Migrate opens a dedicated postgres connection, runs fn against the embedded
// migrations and closes the connection
func Migrate(cfg config.DatabaseConfig, logger *zap.Logger, fn func(m *migration.Migrator) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	// the migrator owns sqlDB from here on
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Warn("failed to close migrator", zap.Error(cerr))
		}
	}()
	return fn(m)
}

func (f *Factory) openRedis(ctx context.Context) (*Handle, error) {
	rs, err := cache.NewRedisStore(ctx, f.cfg.Redis)
	if err == nil {
		f.logger.Info("using Redis store", zap.String("addr", f.cfg.Redis.Addr()))
		return &Handle{Store: rs, Driver: config.DriverRedis, closer: rs.Close}, nil
	}

	if !f.allowMemoryFallback {
		return nil, fmt.Errorf("redis store unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory store", zap.Error(err))
	return f.openMemory(), nil
}

func (f *Factory) openS3(ctx context.Context) (*Handle, error) {
	s3Store, err := storage.NewS3Store(ctx, &f.cfg.Storage, storage.WithLogger(f.logger.Named("s3")))
	if err != nil {
		return nil, err
	}
	if err := s3Store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("s3 store unavailable: %w", err)
	}
	f.logger.Info("using S3 store", zap.String("bucket", s3Store.Bucket()))
	return &Handle{Store: s3Store, Driver: config.DriverS3}, nil
}
