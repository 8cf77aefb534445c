package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/browse"
	"github.com/amishk599/internwatch/internal/config"
	"github.com/amishk599/internwatch/internal/dedupe"
	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/source"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse postings interactively (TUI)",
	Long:  "Shows the source picker TUI, then a scrollable list of that source's postings with new/seen markers.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	// Browse mode runs a TUI — any log output before the alt-screen
	// starts corrupts the display.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var enabled []config.SourceConfig
	for _, s := range cfg.Sources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		fmt.Println("No enabled sources in config.")
		return nil
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	client := source.NewClient(httpClient)

	for {
		choice, err := browse.RunSourcePicker(enabled)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}
		src := enabled[choice]

		// Raw fetcher without retry/rate-limit decorators — browse is
		// interactive and a failure just drops back to the picker.
		fetcher, _, ok := createSource(src, client, logger)
		if !ok {
			fmt.Printf("Unsupported source type: %s\n", src.Type)
			continue
		}

		records, err := browse.RunLoader(src.Name, fetcher.Fetch)
		if err != nil {
			fmt.Printf("Error fetching postings: %v\n", err)
			continue
		}

		seen, err := loadSeenKeys(cfg, records, logger)
		if err != nil {
			fmt.Printf("Warning: could not read seen store: %v\n", err)
		}

		wantQuit, err := browse.RunBrowseTUI(src.Name, records, seen)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}

// loadSeenKeys opens the seen store read-only long enough to check which of
// the fetched postings are already known.
func loadSeenKeys(cfg *config.Config, records []model.Record, logger *slog.Logger) (map[string]bool, error) {
	seenStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer seenStore.Close()

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := dedupe.Key(r)
		ok, err := seenStore.HasSeen(key)
		if err != nil {
			return seen, err
		}
		if ok {
			seen[key] = true
		}
	}
	return seen, nil
}
