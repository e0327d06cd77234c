package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/netops-tools/subnet-inventory/internal/api"
	"github.com/netops-tools/subnet-inventory/internal/config"
	"github.com/netops-tools/subnet-inventory/internal/inventory"
	"github.com/netops-tools/subnet-inventory/internal/storage/sql"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The server needs API key storage, which the flat-file store does not
	// provide. The CLI (subnetctl) covers the file driver.
	if cfg.Store.Driver == "file" {
		log.Fatalf("The server requires DB_DRIVER=sqlite3 or postgres; use subnetctl for file-backed inventories")
	}

	// Create data directory if needed (for SQLite)
	if cfg.Store.Driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	// Initialize storage
	store, err := sql.New(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize the inventory rules engine with the reserved ranges
	reserved, err := cfg.Inventory.ReservedNetworks()
	if err != nil {
		log.Fatalf("Invalid reserved ranges: %v", err)
	}
	svc := inventory.New(store, reserved)

	// Create router
	router := api.NewRouter(store, svc, cfg.Auth.BootstrapAPIKey)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting subnet inventory on http://%s", cfg.Server.Addr())
	log.Printf("Press Ctrl+C to stop")

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
