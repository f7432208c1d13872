package main

import (
	"context"
	"flag"
	"log"

	"onlinecourse/internal/config"
	"onlinecourse/internal/database"
	"onlinecourse/internal/logger"

	_ "github.com/godror/godror" // db.driver: godror
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 1, "number of migrations to revert with -direction=down (0 reverts all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}
	defer migrator.Close()

	ctx := context.Background()
	switch *direction {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err))
		}
		l.Info("Migrations applied", zap.Int("count", n))
	case "down":
		n, err := migrator.Down(ctx, *steps)
		if err != nil {
			l.Fatal("Failed to revert migrations", zap.Error(err))
		}
		l.Info("Migrations reverted", zap.Int("count", n))
	default:
		l.Fatal("Unknown migration direction", zap.String("direction", *direction))
	}
}
