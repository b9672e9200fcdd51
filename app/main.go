package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/roadmap-sync/app/api"
	"github.com/lysyi3m/roadmap-sync/app/cfg"
	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/github"
	"github.com/lysyi3m/roadmap-sync/app/progress"
	"github.com/lysyi3m/roadmap-sync/app/render"
	"github.com/lysyi3m/roadmap-sync/app/roadmap"
	"github.com/lysyi3m/roadmap-sync/app/tasks"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		if !cfg.Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogging(appCfg.Debug)

	if err := run(); err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run() error {
	appCfg := cfg.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := roadmap.LoadConfig(appCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load board configuration: %w", err)
	}

	transport, err := newTransport(appCfg)
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(appCfg.HistoryDB)
	if err != nil {
		return err
	}
	defer closeHistory()

	pages, err := render.NewPageRenderer(appCfg.DocsDir, appCfg.TemplateDir)
	if err != nil {
		return err
	}

	factory := &tasks.Factory{
		Config:  config,
		Source:  github.NewClient(transport, config.StatusField),
		Pages:   pages,
		Tables:  render.NewTableGenerator(appCfg.DocsDir),
		Feed:    render.NewFeedGenerator(feedChannel(config, appCfg.Version)),
		DocsDir: appCfg.DocsDir,
		History: history,
	}

	slog.Debug("Configuration loaded",
		"command", appCfg.Command,
		"organization", config.Organization,
		"project", config.ProjectNumber,
		"docs_dir", appCfg.DocsDir,
		"history", appCfg.HistoryDB != "")

	switch appCfg.Command {
	case cfg.CommandActivityLog:
		task := factory.NewActivityLogTask(progress.New(os.Stderr, !appCfg.NoProgress))
		task.Start()
		if err := task.Execute(ctx); err != nil {
			return err
		}
		task.Summary().Print(os.Stdout)
		return nil

	case cfg.CommandServe:
		return serve(ctx, appCfg, factory, history)

	default:
		task := factory.NewSyncRoadmapTask(progress.New(os.Stderr, !appCfg.NoProgress))
		task.Start()
		if err := task.Execute(ctx); err != nil {
			return err
		}
		task.Summary().Print(os.Stdout)
		return nil
	}
}

// newTransport uses the REST client when a token is configured and the gh
// CLI otherwise.
func newTransport(appCfg *cfg.Cfg) (github.Transport, error) {
	if appCfg.GitHubToken == "" {
		slog.Debug("Using gh CLI transport")
		return github.NewCLITransport(), nil
	}

	transport, err := github.NewHTTPTransport(appCfg.GitHubToken, appCfg.GitHubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	slog.Debug("Using GitHub API transport", "api_url", appCfg.GitHubAPIURL)
	return transport, nil
}

// openHistory returns a nil repository when no database path is configured.
func openHistory(path string) (database.RunRepository, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	slog.Debug("Run history enabled", "path", path)

	return database.NewRunStore(db), func() { db.Close() }, nil
}

func feedChannel(config *roadmap.Config, version string) render.FeedChannel {
	return render.FeedChannel{
		Title:       "Roadmap activity",
		Link:        fmt.Sprintf("https://github.com/orgs/%s/projects/%d", config.Organization, config.ProjectNumber),
		Description: "Recent updates to in-flight initiatives and their related work",
		Generator:   "roadmap-sync/" + version,
	}
}

func serve(ctx context.Context, appCfg *cfg.Cfg, factory *tasks.Factory, history database.RunRepository) error {
	if err := factory.Source.Verify(ctx); err != nil {
		return fmt.Errorf("GitHub client not ready: %w", err)
	}

	scheduler := tasks.NewScheduler(factory, appCfg.SyncInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(history, scheduler, appCfg.DocsDir, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "docs", "http://localhost:"+appCfg.Port+"/docs/", "sync_interval", appCfg.SyncInterval)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return runErr
}
