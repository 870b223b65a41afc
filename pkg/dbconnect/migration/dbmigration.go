package migration

import (
	"database/sql"
	"fmt"
)

type MigrationInterface interface {
	Name() string
	UpMigration(*sql.DB) error
}

// Apply runs migrations in order and stops at the first failure.
func Apply(db *sql.DB, migrations ...MigrationInterface) error {
	for _, m := range migrations {
		if err := m.UpMigration(db); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name(), err)
		}
	}
	return nil
}
