package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtyLedger is returned when a previous migration of the ledger was
// interrupted. The file has to be removed or repaired by hand.
var ErrDirtyLedger = errors.New("ledger schema is dirty")

// RunMigrations brings the ledger schema up to date. A ledger written by a
// newer release, with migrations this binary does not know, is rejected
// instead of being written with a mismatched schema.
func RunMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	before, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		before = 0
	case err != nil:
		return fmt.Errorf("read ledger schema version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirtyLedger, before)
	}

	if before > 0 {
		rc, _, err := sourceDriver.ReadUp(before)
		if err != nil {
			return fmt.Errorf("ledger schema version %d is unknown to this binary: %w", before, err)
		}
		_ = rc.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run ledger migrations: %w", err)
	}

	after, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("read ledger schema version: %w", err)
	}
	if after != before {
		slog.Debug("ledger schema migrated", "from", before, "to", after)
	}

	return nil
}
