package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/filter"
	"github.com/amishk599/internwatch/internal/notifier"
	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/source"
	"github.com/amishk599/internwatch/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan once, print matches, exit",
	Long:  "One-shot scan: fetches every enabled source and prints matched postings. Does not write to the store or send real notifications.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no postings will be marked as seen")

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	client := source.NewClient(httpClient)
	titleFilter := filter.NewTitleFilter(cfg.Filters.TitleKeywords, cfg.Filters.TitleExcludeKeywords)

	sources := buildSources(cfg, client, logger)
	if len(sources) == 0 {
		logger.Error("no sources to scan")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(
		sources,
		titleFilter,
		store.NewNopStore(),
		notifier.NewLogNotifier(logger),
		cfg.Notification.Delivery,
		logger,
	)
	if err := p.Run(ctx); err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete")
	return nil
}
