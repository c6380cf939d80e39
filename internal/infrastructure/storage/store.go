// Package storage selects and assembles the configured storage backend.
package storage

import (
	"context"
	"fmt"
	"time"

	"productdesk/internal/core/tx"
	"productdesk/internal/domain/audit"
	"productdesk/internal/domain/catalogs/product"
	"productdesk/internal/infrastructure/storage/postgres"
	"productdesk/internal/infrastructure/storage/postgres/catalog_repo"
	"productdesk/internal/infrastructure/storage/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MemoryPath makes the SQLite driver use a process-local in-memory database.
const MemoryPath = ":memory:"

// Config selects a backend.
type Config struct {
	Driver string

	// DatabaseURL is the PostgreSQL DSN.
	DatabaseURL      string
	MaxConns         int32
	StatementTimeout time.Duration

	// SQLitePath is a database file or MemoryPath.
	SQLitePath string
}

// Store bundles the repositories and transaction manager of one backend.
type Store struct {
	Backend   string
	Products  product.Repository
	Audit     audit.Repository
	TxManager tx.Manager

	ping    func(ctx context.Context) error
	migrate func() error
	close   func() error
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return openPostgres(ctx, cfg)
	case DriverSQLite:
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q (want %s or %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
}

func openPostgres(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("postgres driver requires a database URL")
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	txm := postgres.NewTxManager(pool)
	if cfg.StatementTimeout > 0 {
		opts := postgres.DefaultTxOptions()
		opts.StatementTimeout = cfg.StatementTimeout
		txm = txm.WithOptions(opts)
	}

	return &Store{
		Backend:   DriverPostgres,
		Products:  catalog_repo.NewProductRepo(txm),
		Audit:     postgres.NewAuditRepo(txm),
		TxManager: txm,
		ping:      pool.Ping,
		migrate:   func() error { return postgres.RunMigrations(pool) },
		close: func() error {
			pool.LogStats(context.Background())
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLite(ctx context.Context, cfg Config) (*Store, error) {
	var dsn string
	switch cfg.SQLitePath {
	case "":
		return nil, fmt.Errorf("sqlite driver requires a database path")
	case MemoryPath:
		dsn = sqlite.MemoryDSN("productdesk")
	default:
		dsn = sqlite.FileDSN(cfg.SQLitePath)
	}

	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	txm := sqlite.NewTxManager(db)
	return &Store{
		Backend:   DriverSQLite,
		Products:  sqlite.NewProductRepo(txm),
		Audit:     sqlite.NewAuditRepo(txm),
		TxManager: txm,
		ping:      db.Ping,
		migrate:   func() error { return sqlite.RunMigrations(db.Writer) },
		close:     db.Close,
	}, nil
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate() error {
	if err := s.migrate(); err != nil {
		return fmt.Errorf("%s: %w", s.Backend, err)
	}
	return nil
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases all connections.
func (s *Store) Close() error {
	return s.close()
}
