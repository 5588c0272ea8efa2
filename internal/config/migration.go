package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/care-services/api-bi/internal/db"
)

var dbNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnsureDatabase creates name through the admin connection when it is absent.
// It reports whether the database was created.
func EnsureDatabase(ctx context.Context, admin *gorm.DB, name string) (bool, error) {
	if !dbNamePattern.MatchString(name) {
		return false, fmt.Errorf("nombre de base de datos inválido: %q", name)
	}

	var exists bool
	err := admin.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = ?)", name).
		Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("consultar pg_database: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := admin.WithContext(ctx).Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, name)).Error; err != nil {
		return false, fmt.Errorf("crear base de datos %s: %w", name, err)
	}
	return true, nil
}

// RunMigrations corre todas las migraciones pendientes de dir sobre target.
func RunMigrations(target DBConfig, migrations fs.FS, dir string) error {
	src, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("leer migraciones %s: %w", dir, err)
	}

	dsn, err := target.ConnString()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creando migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicando migraciones %s: %w", dir, err)
	}
	return nil
}

// Bootstrap creates the OLTP and OLAP databases when missing and applies the
// shipped DDL and seed scripts to both.
func Bootstrap(ctx context.Context, cfg *Config, log *zap.Logger) error {
	admin, err := NewPostgresDB(cfg.Admin, cfg.Log.Level, log)
	if err != nil {
		return err
	}
	defer ClosePostgresDB(admin, log)

	targets := []struct {
		store DBConfig
		dir   string
	}{
		{cfg.Source, db.SourceMigrations},
		{cfg.Warehouse, db.WarehouseMigrations},
	}

	for _, t := range targets {
		name := t.store.DatabaseName()
		created, err := EnsureDatabase(ctx, admin, name)
		if err != nil {
			return err
		}
		if created {
			log.Info("database created", zap.String("database", name))
		} else {
			log.Info("database already exists", zap.String("database", name))
		}

		if err := RunMigrations(t.store, db.Migrations, t.dir); err != nil {
			return err
		}
		log.Info("migrations applied", zap.String("database", name), zap.String("dir", t.dir))
	}
	return nil
}
