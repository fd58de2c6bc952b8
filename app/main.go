package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsriver/app/api"
	"newsriver/app/cfg"
	"newsriver/app/database"
	"newsriver/app/feed"
	"newsriver/app/importer"
	"newsriver/app/opml"
	"newsriver/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting NewsRiver", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	publisherRepo := database.NewPublisherRepository(db)
	sourceRepo := database.NewSourceRepository(db)
	articleRepo := database.NewArticleRepository(db)

	attrs := opml.DefaultAttributeMap()
	if appCfg.MappingsFile != "" {
		if err := attrs.LoadOverrides(appCfg.MappingsFile); err != nil {
			slog.Error("Failed to load attribute mapping overrides", "file", appCfg.MappingsFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Attribute mapping overrides loaded", "file", appCfg.MappingsFile)
	}

	httpClient := &http.Client{}
	feedParser := feed.NewParser()
	contentExtractor := feed.NewContentExtractor()

	var scheduler *tasks.Scheduler
	var syncs importer.SyncScheduler
	if !appCfg.ImportOnly {
		scheduler = tasks.NewScheduler(sourceRepo, articleRepo, httpClient, feedParser, contentExtractor)
		syncs = scheduler
	}

	imp := importer.NewImporter(
		opml.NewParser(),
		opml.NewFetcher(time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.UserAgent),
		attrs,
		importer.NewPublisherResolver(publisherRepo),
		importer.NewSourceUpserter(sourceRepo),
		syncs,
		appCfg.ImportDir,
		appCfg.ImportExtension,
		time.Duration(appCfg.SyncDelayStep)*time.Second,
	)

	if _, err := imp.Run(context.Background(), appCfg.ForceImport); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}

	if appCfg.ImportOnly {
		slog.Info("Import-only mode, exiting")
		return
	}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(publisherRepo, sourceRepo, articleRepo, imp, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
