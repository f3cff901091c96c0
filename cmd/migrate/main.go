package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-inventory-server/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	db, cleanup := platformpostgres.ConnectWithFallback(ctx, dsn, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot migrate")
	}

	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	log.Printf("schema migration completed")
}
