package postgres

import (
	"errors"
	"strings"

	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending database migrations using the embedded
// migration files. The connection URL is rewritten to the pgx5:// scheme the
// golang-migrate pgx/v5 driver registers under.
func (s *Store) ApplyMigrations() error {
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	migrateURL := s.dsn
	if rest, found := strings.CutPrefix(s.dsn, "postgres://"); found {
		migrateURL = "pgx5://" + rest
	} else if rest, found := strings.CutPrefix(s.dsn, "postgresql://"); found {
		migrateURL = "pgx5://" + rest
	}

	instance, err := migrate.NewWithSourceInstance("iofs", source, migrateURL)
	if err != nil {
		_ = source.Close()
		return err
	}
	defer instance.Close()

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
