package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"healthdash/adapters/postgres"
	"healthdash/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// The server runs migrations at boot; this binary exists for deploy
// pipelines that migrate before rolling the server, and for pruning
// stale selection snapshots out of band.
func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"),
		"PostgreSQL connection string (default: DATABASE_URL env)")
	cleanupOlderThan := flag.Duration("cleanup-older-than", 0,
		"Also delete selection snapshots idle longer than this (0 disables)")
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Usage: migrate -database-url <postgres-url> [-cleanup-older-than 720h]")
	}

	db, err := sqlx.Connect("postgres", *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	runner := migration.NewRunner()
	start := time.Now()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migrations up to date (schema version %s) in %v", runner.Version(), time.Since(start))

	if *cleanupOlderThan > 0 {
		snapshots := postgres.NewSnapshotRepository(db)
		removed, err := snapshots.CleanupExpired(ctx, *cleanupOlderThan)
		if err != nil {
			log.Fatalf("Snapshot cleanup failed: %v", err)
		}
		log.Printf("Removed %d selection snapshots idle longer than %v", removed, *cleanupOlderThan)
	}
}
