package database

import (
	"context"
	"fmt"
	"time"

	"onlinecourse/internal/config"
	"onlinecourse/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go)
	"go.uber.org/zap"
)

func init() {
	// go-ora registers as "oracle", which sqlx does not know uses :name binds.
	sqlx.BindDriver(config.DriverGoOra, sqlx.NAMED)
}

// NewSQLXOracleDB opens a pooled connection with the configured driver and pings it.
// The godror driver needs cgo, so only the migrate and seed binaries link it.
func NewSQLXOracleDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database with driver %s: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Connected to Oracle database",
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.String("service", cfg.DB.DBName),
	)
	return db, nil
}
