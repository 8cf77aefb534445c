package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/config"
	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/notifier"
	"github.com/amishk599/internwatch/internal/ratelimit"
	"github.com/amishk599/internwatch/internal/retry"
	"github.com/amishk599/internwatch/internal/source"
	"github.com/amishk599/internwatch/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "internwatch",
	Short: "Internship radar — new listings to your phone",
	Long:  "Internwatch scans internship listing boards and texts you the postings you haven't seen yet.",
	// Default to `run` so that `internwatch` with no args does one scan cycle.
	// This preserves compatibility with cron entries that invoke the binary directly.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INTERNWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > INTERNWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	// Credentials usually live in a local .env; missing file is fine.
	_ = godotenv.Load()

	if path == "" {
		if env := os.Getenv("INTERNWATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "twilio":
		logger.Info("using twilio notifier", "recipients", len(cfg.Notification.Twilio.To))
		t := cfg.Notification.Twilio
		return notifier.NewTwilioNotifier(t.AccountSID, t.AuthToken, t.From, t.To, httpClient, logger)
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func openStore(cfg *config.Config, logger *slog.Logger) (model.SeenStore, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.Path)
	default:
		return store.NewJSONStore(cfg.Store.Path, logger)
	}
}

// createSource builds the raw fetcher for one source entry and returns the
// host the rate limiter should key on.
func createSource(s config.SourceConfig, client *source.Client, logger *slog.Logger) (model.SourceFetcher, string, bool) {
	switch s.Type {
	case "internlist":
		il, err := source.NewInternList(s.Name, s.Category, client)
		if err != nil {
			logger.Warn("skipping source", "name", s.Name, "error", err)
			return nil, "", false
		}
		return il, "www.intern-list.com", true
	case "simplify":
		return source.NewSimplify(s.Name, client), "simplify.jobs", true
	case "pittcsc":
		return source.NewPittCSC(s.Name, client), "raw.githubusercontent.com", true
	default:
		logger.Warn("unsupported source type, skipping", "name", s.Name, "type", s.Type)
		return nil, "", false
	}
}

func buildSources(cfg *config.Config, client *source.Client, logger *slog.Logger) []model.SourceFetcher {
	// Shared host-level rate limiter - all sources on the same host share this instance.
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.MinDelay)

	var fetchers []model.SourceFetcher
	for _, s := range cfg.Sources {
		if !s.Enabled {
			continue
		}

		fetcher, host, ok := createSource(s, client, logger)
		if !ok {
			continue
		}

		// Wrap with host-level rate limiting, then retries around the whole thing.
		fetcher = ratelimit.NewLimitedFetcher(fetcher, limiter, host)
		fetcher = retry.NewFetcher(fetcher, cfg.Fetch.MaxRetries, cfg.Fetch.RetryBaseDelay, logger)

		fetchers = append(fetchers, fetcher)
		logger.Info("registered source", "name", s.Name, "type", s.Type)
	}
	return fetchers
}
