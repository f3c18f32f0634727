package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"task-tracker/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pingTimeout = 5 * time.Second

// State is the lifecycle of the schema initializer.
type State int32

const (
	StateUninitialized State = iota
	StateRetrying
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRetrying:
		return "retrying"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Initializer brings the schema up to date at process start. Every attempt
// pings the pool and applies pending migrations; failures are retried with a
// fixed backoff until the attempt budget is spent.
type Initializer struct {
	db          *sql.DB
	databaseURL string
	attempts    uint
	backoff     time.Duration
	log         *zap.Logger

	state atomic.Int32

	// step performs one attempt. Replaced in tests.
	step func(ctx context.Context) error
}

func NewInitializer(db *sql.DB, databaseURL string, cfg config.SchemaConfig, log *zap.Logger) *Initializer {
	if log == nil {
		log = zap.NewNop()
	}
	i := &Initializer{
		db:          db,
		databaseURL: databaseURL,
		attempts:    uint(cfg.Attempts),
		backoff:     cfg.Backoff,
		log:         log.Named("schema"),
	}
	i.step = i.migrateOnce
	return i
}

// State reports the current lifecycle state. Safe for concurrent use.
func (i *Initializer) State() State {
	return State(i.state.Load())
}

// Ready reports whether the schema has been applied.
func (i *Initializer) Ready() bool {
	return i.State() == StateReady
}

// Run blocks until the schema is ready, the attempts are exhausted, or ctx is
// cancelled. The returned error is the last attempt's failure.
func (i *Initializer) Run(ctx context.Context) error {
	start := time.Now()
	var attempt uint

	err := retry.Do(
		func() error {
			attempt++
			return i.step(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(i.attempts),
		retry.Delay(i.backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			i.state.Store(int32(StateRetrying))
			i.log.Warn("schema_init_failed",
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", i.attempts),
				zap.Duration("backoff", i.backoff),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		i.state.Store(int32(StateFailed))
		i.log.Error("schema_init_exhausted", zap.Uint("attempts", attempt), zap.Error(err))
		return fmt.Errorf("schema initialization failed after %d attempt(s): %w", attempt, err)
	}

	i.state.Store(int32(StateReady))
	i.log.Info("schema_ready", zap.Uint("attempts", attempt), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (i *Initializer) migrateOnce(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := i.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return Migrate(i.databaseURL)
}

// Migrate applies every pending embedded migration to the database at
// databaseURL. A schema that is already current is not an error.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	// A URL-based database instance keeps migrate from closing the shared pool.
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
