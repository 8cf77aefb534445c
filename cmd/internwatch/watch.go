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
	"github.com/amishk599/internwatch/internal/scheduler"
	"github.com/amishk599/internwatch/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Start the scanning daemon",
	Long:  "Runs scan cycles on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
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
	defer seenStore.Close()

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	client := source.NewClient(httpClient)
	titleFilter := filter.NewTitleFilter(cfg.Filters.TitleKeywords, cfg.Filters.TitleExcludeKeywords)
	n := setupNotifier(cfg, httpClient, logger)

	sources := buildSources(cfg, client, logger)
	if len(sources) == 0 {
		logger.Error("no sources to scan")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(sources, titleFilter, seenStore, n, cfg.Notification.Delivery, logger)
	sched := scheduler.NewScheduler(p, cfg.PollingInterval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
