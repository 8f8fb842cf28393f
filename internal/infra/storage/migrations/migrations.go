package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

//go:embed sqlite/*.sql mysql/*.sql
var migrationsFS embed.FS

// ErrUnsupportedDialect возвращается для диалекта без набора миграций
var ErrUnsupportedDialect = errors.New("migrations: unsupported dialect")

// Run применяет встроенные миграции схемы для диалекта.
// Миграции описывают таблицы без префикса
func Run(db *sql.DB, dialect domain.Dialect) error {
	var (
		driver database.Driver
		dir    string
		err    error
	)

	switch dialect {
	case domain.DialectSQLite:
		dir = "sqlite"
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case domain.DialectMySQL:
		dir = "mysql"
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}
