// Command migration creates the lot schema on the configured database.
// Use it when database.auto_schema is off.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"lot-backend/db"
	"lot-backend/pkg/config"
	"lot-backend/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx := context.Background()
	conn, dialect, err := db.Open(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect", zap.Error(err))
	}
	defer conn.Close()

	zl.Info("creating schema", zap.String("driver", dialect.Name()), zap.Int("statements", len(dialect.Schema())))
	if err := db.EnsureSchema(ctx, conn, dialect); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("migration done")
}
