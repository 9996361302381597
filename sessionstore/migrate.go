package sessionstore

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxdrv "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigratePostgres applies the embedded session-table migrations to the
// database at url and returns the resulting schema version.
func MigratePostgres(url string) (uint, error) {
	srcDrv, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	dbDrv, err := (&pgxdrv.Postgres{}).Open(url)
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", srcDrv, "postgres", dbDrv)
	if err != nil {
		return 0, fmt.Errorf("init migrator: %w", err)
	}

	ver, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("get db version before migration: %w", err)
	}

	if dirty {
		return ver, fmt.Errorf("current version is dirty: %d", ver)
	}

	err = mig.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	ver, _, err = mig.Version()
	if err != nil {
		return 0, fmt.Errorf("get db version after migration: %w", err)
	}

	return ver, nil
}
