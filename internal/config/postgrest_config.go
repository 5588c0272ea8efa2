package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB builds the pool without pinging; an unreachable server is
// reported when a run or query first acquires a connection.
func NewPostgresDB(cfg DBConfig, logLevel string, log *zap.Logger) (*gorm.DB, error) {
	dsn, err := cfg.ConnString()
	if err != nil {
		return nil, fmt.Errorf("dsn inválido: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(GormLogLevel(logLevel)),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	// Configurar pool de conexiones
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error obteniendo DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Info("postgres pool ready", zap.String("database", cfg.DatabaseName()))
	return db, nil
}

func ClosePostgresDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("failed to close database", zap.Error(err))
	}
}
