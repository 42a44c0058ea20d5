package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nhle/tempmail/internal/app"
	"github.com/nhle/tempmail/internal/logger"
	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/provider"
	"github.com/nhle/tempmail/internal/session"
	"github.com/nhle/tempmail/internal/store"
	appsync "github.com/nhle/tempmail/internal/sync"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tempmail: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", model.DefaultConfigPath(), "path to config file")
	baseURL := pflag.String("base-url", "", "provider API root (overrides config)")
	logFile := pflag.String("log-file", "", "write logs to this file (overrides config)")
	showVersion := pflag.BoolP("version", "v", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println("tempmail", version)
		return nil
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.Provider.BaseURL = *baseURL
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting tempmail",
		zap.String("version", version),
		zap.String("base_url", cfg.Provider.BaseURL),
		zap.Int("poll_interval_sec", cfg.Inbox.PollIntervalSec),
	)

	switch cfg.Display.Theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	ledger, err := store.NewSQLiteStore(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer ledger.Close()

	client := provider.NewClient(cfg.Provider.BaseURL,
		provider.WithTimeout(cfg.Provider.Timeout()),
		provider.WithRateLimit(cfg.Provider.RatePerSec),
		provider.WithUserAgent("tempmail/"+version),
	)

	ctrl := session.New(client, session.WithLogger(log.Named("session")))
	poller := appsync.New(ctrl, ledger, cfg.Inbox.PollInterval(),
		appsync.WithLogger(log.Named("poller")),
	)
	defer poller.Stop()

	root := app.New(ctrl, poller, ledger, cfg.Display, log.Named("ui"))
	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		log.Error("program exited with error", zap.Error(err))
		return err
	}

	log.Info("exiting")
	return nil
}
