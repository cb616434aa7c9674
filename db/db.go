// Package db opens the configured document store and applies its schema.
// MongoDB gets its unique index through the store itself; PostgreSQL is
// migrated with golang-migrate from the SQL files embedded in this package.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // driver for database/sql, needed by migrate's postgres driver
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/config"
	"github.com/user/reliefhub-go/store"
	"github.com/user/reliefhub-go/store/memstore"
	"github.com/user/reliefhub-go/store/mongostore"
	"github.com/user/reliefhub-go/store/pgstore"
)

// migrations holds the SQL files under db/migrations. The go:embed directive
// compiles them into the binary, so a deployed server does not need the source
// tree next to it to bring its schema up to date.
//
//go:embed migrations/*.sql
var migrations embed.FS

const (
	connectTimeout  = 10 * time.Second
	pingTimeout     = 5 * time.Second
	maxConnIdleTime = 10 * time.Minute
	maxConnLifetime = 30 * time.Minute
)

// Open connects to the store selected by cfg.Driver and verifies it is
// reachable. The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg *config.StoreConfig, l *zap.Logger) (store.Store, error) {
	// Each branch returns the same store.Store interface. Services above this
	// package never learn which backend they are talking to.
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := connectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		l.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase), zap.Int("pool_size", cfg.PoolSize))
		return mongostore.New(client, cfg.MongoDatabase), nil

	case config.DriverPostgres:
		pool, err := createPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		l.Info("connected to postgres", zap.Int32("max_conns", pool.Config().MaxConns))
		// Schema changes for Postgres live in versioned SQL files, so the store
		// is handed a closure that runs them instead of creating tables itself.
		dsn := cfg.DatabaseURL
		return pgstore.New(pool, func(context.Context) error {
			return RunMigrations(dsn, l)
		}), nil

	case config.DriverMemory:
		l.Warn("using in-memory store; data is lost on restart")
		return memstore.New(), nil
	}
	return nil, apperror.NewConfigError(fmt.Sprintf("unknown store driver %q", cfg.Driver), nil)
}

// connectMongo creates a client with the configured pool size and pings the
// primary before handing it out.
func connectMongo(ctx context.Context, cfg *config.StoreConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(uint64(cfg.PoolSize)).
		SetConnectTimeout(connectTimeout)
	// mongo.Connect only validates options and starts background monitoring.
	// It does not prove the server is reachable, which is what the ping below
	// is for.
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, apperror.NewStoreUnavailableError("error connecting to mongodb", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Release the monitoring goroutines started by Connect.
		_ = client.Disconnect(context.Background())
		return nil, apperror.NewStoreUnavailableError("error pinging mongodb", err)
	}
	return client, nil
}

// createPgxPool establishes a pgxpool connection pool and verifies it with a ping.
func createPgxPool(ctx context.Context, cfg *config.StoreConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, apperror.NewConfigError("error parsing DATABASE_URL", err)
	}
	// ParseConfig reads pool settings from the URL query (pool_max_conns and
	// friends); explicit configuration wins over whatever the URL says.
	poolConfig.MaxConns = int32(cfg.PoolSize)
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.MaxConnLifetime = maxConnLifetime

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	// Like mongo.Connect, creating the pool is lazy: connections are opened on
	// first use. Ping forces one now so a bad password fails at startup.
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewStoreUnavailableError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewStoreUnavailableError("error connecting to postgres with pgxpool", err)
	}
	return pool, nil
}

// newMigrator builds a migrate instance reading the embedded SQL files.
func newMigrator(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open embedded migrations", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}

// RunMigrations applies all pending PostgreSQL migrations. migrate opens its
// own database/sql connection from dsn; the pgx pool is not shared with it.
func RunMigrations(dsn string, l *zap.Logger) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			l.Warn("error closing migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	// Up applies every migration newer than the version recorded in the
	// schema_migrations table. ErrNoChange is migrate's way of saying there
	// was nothing to do, which is the normal case on every restart.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info("schema is up to date")
			return nil
		}
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		l.Info("applied migrations", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
	return nil
}

// Migrate applies the store's schema, wrapping failures as migration errors.
func Migrate(ctx context.Context, s store.Store) error {
	if err := s.Migrate(ctx); err != nil {
		// Backends that already classified the failure (for example a
		// MigrationError from RunMigrations) keep their own type.
		if _, ok := apperror.FromError(err); ok {
			return err
		}
		return apperror.NewMigrationError("failed to apply schema", err)
	}
	return nil
}
