// Package db owns the Postgres connection pool and the embedded schema.
package db

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"task-tracker/internal/config"
)

// OpenDB opens a PostgreSQL connection pool for cfg.
//
// No connection is made here; the schema initializer pings the database on
// startup and owns the retry policy.
func OpenDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	return open(cfg.URL(), cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}

func open(databaseURL string, maxOpen, maxIdle int, lifetime time.Duration) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	return db, nil
}
