package main

import (
	"context"
	"embed"
	"log"
	"net/http"

	"healthdash/adapters/memory"
	"healthdash/adapters/postgres"
	"healthdash/adapters/tabular"
	"healthdash/internal/api"
	"healthdash/internal/config"
	"healthdash/internal/dataset"
	"healthdash/internal/errors"
	"healthdash/internal/migration"
	"healthdash/internal/session"
	"healthdash/internal/testkit"
	"healthdash/ports"
	"healthdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed ui/templates/** ui/static/*
var embeddedFiles embed.FS

// loadStore builds the dataset store from the configured file, or from
// the built-in sample dataset when no file is configured.
func loadStore(appConfig *config.Config) (*dataset.Store, error) {
	if appConfig.Data.File == "" {
		log.Printf("[DATA] No data file configured, using built-in sample dataset")
		return testkit.SampleStore()
	}

	reader, err := tabular.NewReader(appConfig.Data.File)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open data source")
	}
	table, err := reader.Read(appConfig.Data.File)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read data source")
	}
	return dataset.FromTable(table)
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	// Load the health survey into the shared store
	store, err := loadStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	report := store.Report()
	log.Printf("[DATA] Dataset ready: %d rows loaded, %d skipped, %d states, years %v",
		report.Loaded, report.Skipped, len(store.States()), store.Years())

	// Selection snapshots go to Postgres when configured, otherwise to
	// process memory.
	var snapshots ports.SelectionStore
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		snapshots = postgres.NewSnapshotRepository(db)
		log.Printf("[DATA] Selection snapshots persisted to PostgreSQL")
	} else {
		snapshots = memory.NewSnapshotStore()
		log.Printf("[DATA] No DATABASE_URL configured, keeping selection snapshots in memory")
	}

	sessions := session.NewManager(store, appConfig.Session.TTL)
	sessions.StartSweeper(appConfig.Session.SweepInterval)
	defer sessions.Close()

	hub := api.NewSSEHub()

	server := ui.NewServer(embeddedFiles)
	if err := server.Initialize(store, sessions, snapshots, hub); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Ops endpoints stay off the public port
	if appConfig.Ops.Enabled {
		opsRouter := ui.NewOpsRouter(store, sessions, hub)
		go func() {
			addr := ":" + appConfig.Ops.Port
			log.Printf("[OPS] 🚀 Ops server starting on %s", addr)
			if err := http.ListenAndServe(addr, opsRouter); err != nil {
				log.Printf("[OPS] ❌ Ops server failed: %v", err)
			}
		}()
	}

	log.Printf("🚀 Starting healthdash server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
