package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Acciones de migración soportadas.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateVersion = "version"
)

// Migrate aplica las migraciones embebidas sobre dsn.
func Migrate(dsn, action string, log *logger.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("abrir migraciones: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	switch action {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Down()
	case MigrateVersion:
		version, dirty, vErr := m.Version()
		if errors.Is(vErr, migrate.ErrNilVersion) {
			log.Info().Msg("sin migraciones aplicadas")
			return nil
		}
		if vErr != nil {
			return vErr
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión de esquema")
		return nil
	default:
		return fmt.Errorf("acción de migración no soportada %q", action)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", action, err)
	}
	log.Info().Str("action", action).Msg("migración completada")
	return nil
}
