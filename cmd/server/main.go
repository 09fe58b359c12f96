package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"hostlookup/internal/app"
	"hostlookup/internal/config"
	"hostlookup/internal/handler"
	"hostlookup/internal/hub"
	"hostlookup/internal/repository/sqlite"
	"hostlookup/internal/service"
	"hostlookup/internal/watcher"
)

func main() {
	// Command line flags override the config file
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	flag.Parse()

	fs := afero.NewOsFs()

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if *configPath != "" {
		cfg, path, err = config.LoadFromPath(fs, *configPath)
	} else {
		cfg, path, err = config.Load(fs)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config %s: %v\n", path, err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if path == "" {
		log.Info("no config file found, using defaults")
	} else {
		log.Info("config loaded", zap.String("path", path))
	}
	log.Info(cfg.Summary())

	if err := run(cfg, fs, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, fs afero.Fs, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	log.Info("database opened", zap.String("path", cfg.Database.Path))

	sources, err := app.BuildSources(cfg, fs, log)
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}

	// Connect event bus to SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New(log.Named("hub"))
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Publish(string(event.Type), event)
			case <-ctx.Done():
				return
			}
		}
	}()

	svc := service.NewHostService(sources.Registry, repo, eventBus, log.Named("service"))

	// Announce inventory edits; file sources read on every call
	if watched := sources.WatchPaths(); len(watched) > 0 {
		paths := make([]string, 0, len(watched))
		for p := range watched {
			paths = append(paths, p)
		}
		w := watcher.New(paths, func(changed string) {
			for p, name := range watched {
				if sameFile(p, changed) {
					svc.SourceReloaded(name, changed)
				}
			}
		}, watcher.WithLogger(log.Named("watcher")))

		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Error("file watcher stopped", zap.Error(err))
			}
		}()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Hosts:          handler.NewHostHandler(svc, log.Named("http")),
		Events:         sseHub,
		Log:            log.Named("http"),
		RequestTimeout: cfg.Server.RequestTimeout.Duration(),
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return err
	}

	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
