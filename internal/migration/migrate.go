// Package migration applies the SQL schema under db/migrations.
package migration

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// database driver and file:// source.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator is the subset of *migrate.Migrate the runner needs.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// Engine builds a Migrator for a source and database URL.
type Engine func(sourceURL, databaseURL string) (Migrator, error)

// DefaultEngine is backed by golang-migrate.
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Runner applies migrations from a directory to a database.
type Runner struct {
	dir    string
	dbURL  string
	engine Engine
	logger *log.Logger
}

// New returns a Runner. A nil engine selects DefaultEngine.
func New(dir, dbURL string, engine Engine, logger *log.Logger) *Runner {
	if engine == nil {
		engine = DefaultEngine
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{dir: dir, dbURL: dbURL, engine: engine, logger: logger}
}

// Up applies every pending migration. An already current schema is not an error.
func (r *Runner) Up() (err error) {
	m, err := r.engine("file://"+r.dir, r.dbURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			err = errors.Join(err, fmt.Errorf("close migration source: %w", srcErr))
		}
		if dbErr != nil {
			err = errors.Join(err, fmt.Errorf("close migration database: %w", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Println("migration: schema up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	r.logger.Printf("migration: applied migrations from %s", r.dir)
	return nil
}
