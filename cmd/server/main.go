package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kikao/newsfeed/app/api"
	"github.com/kikao/newsfeed/app/cfg"
	"github.com/kikao/newsfeed/app/classify"
	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/ingest"
	"github.com/kikao/newsfeed/app/sources"
	"github.com/kikao/newsfeed/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional; environment variables win in production.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	log.Printf("Starting Kikao Newsfeed server (version %s)...", appCfg.Version)

	log.Printf("Opening database at %s...", appCfg.DBPath)
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database migrated to version %d (dirty: %t)", version, dirty)

	log.Printf("Loading source configurations from %s...", appCfg.SourcesDir)
	registry := sources.NewRegistry(appCfg.SourcesDir)
	if err := registry.Run(); err != nil {
		log.Fatal("Failed to load source configurations:", err)
	}
	log.Printf("Loaded %d source configurations", registry.Count())

	articleRepo := database.NewArticleRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	sourceRepo := database.NewSourceRepository(db)

	registeredCount := 0
	for _, source := range registry.All() {
		id, err := sourceRepo.Upsert(source.Name, source.Author(), source.URL,
			source.Settings.CategoryHint, source.Settings.Enabled)
		if err != nil {
			log.Printf("Warning: Failed to register source %s: %v", source.Name, err)
			continue
		}
		log.Printf("Registered source: %s (ID: %s, URL: %s)", source.Name, id, source.URL)
		registeredCount++
	}
	log.Printf("Successfully registered %d/%d sources", registeredCount, registry.Count())

	httpClient := &http.Client{}
	writer := ingest.NewWriter(articleRepo, appCfg.IngestStatus)
	orchestrator := ingest.NewOrchestrator(registry, feed.NewParser(),
		classify.NewDefaultClassifier(), writer, articleRepo, categoryRepo,
		sourceRepo, httpClient, appCfg.UserAgent, appCfg.WorkerCount)

	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(registry, orchestrator, feed.NewContentExtractor(),
		articleRepo, sourceRepo, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(registry, articleRepo, categoryRepo, sourceRepo, orchestrator)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("Endpoints available:")
		log.Printf("  RSS feed:      http://localhost:%s/feed.xml?category=<slug>", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)
		log.Printf("  Ingestion:     http://localhost:%s/api/ingest (POST)", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Kikao Newsfeed server started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Kikao Newsfeed server shutdown complete")
}
