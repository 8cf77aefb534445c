package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/filter"
	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan once, notify, exit",
	Long:  "One scan cycle: fetches every enabled source, notifies new postings, updates the seen store, exits. Meant for cron.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"sources", len(cfg.Sources),
		"title_keywords", cfg.Filters.TitleKeywords,
		"store", cfg.Store.Backend,
		"delivery", cfg.Notification.Delivery,
	)

	seenStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	client := source.NewClient(httpClient)
	titleFilter := filter.NewTitleFilter(cfg.Filters.TitleKeywords, cfg.Filters.TitleExcludeKeywords)
	n := setupNotifier(cfg, httpClient, logger)

	sources := buildSources(cfg, client, logger)
	if len(sources) == 0 {
		seenStore.Close()
		logger.Error("no sources to scan")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(sources, titleFilter, seenStore, n, cfg.Notification.Delivery, logger)
	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("scan failed", "error", runErr)
	}

	if err := seenStore.Close(); err != nil {
		logger.Error("failed to close store", "error", err)
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}
	return nil
}
