package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/GintGld/chat-envboot/migrations"
)

const DefaultTable = "migrations"

// Up applies embedded migrations to sqlite database at storagePath.
// It returns false if there was nothing to apply.
func Up(storagePath, table string) (bool, error) {
	const op = "migrator.Up"

	m, err := newMigrate(storagePath, table)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// Down rolls back every migration.
func Down(storagePath, table string) error {
	const op = "migrator.Down"

	m, err := newMigrate(storagePath, table)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func newMigrate(storagePath, table string) (*migrate.Migrate, error) {
	if table == "" {
		table = DefaultTable
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, err
	}

	return migrate.NewWithSourceInstance(
		"iofs",
		src,
		fmt.Sprintf("sqlite3://%s?x-migrations-table=%s", storagePath, table),
	)
}
