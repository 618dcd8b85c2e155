package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldworks/signup-sync/internal/sync"
	"github.com/fieldworks/signup-sync/pkg/actionkit"
	"github.com/fieldworks/signup-sync/pkg/ticker"
	"github.com/fieldworks/signup-sync/pkg/van"
)

var (
	syncPage     int
	syncLookback int
	syncDryRun   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one signup sync batch",
	Long: `Run one signup sync batch.

Extracts signup rows for the configured page inside the lookback window,
upserts each signer into VAN, and applies at most one survey response or
activist code per row. Use --dry-run to extract and normalize without
touching VAN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "sync"))

		engine := newEngine()
		opts := syncOpts()

		log.Info("starting signup sync",
			zap.Int("page_id", opts.PageID),
			zap.Int("lookback_days", opts.LookbackDays),
			zap.Bool("dry_run", opts.DryRun),
		)

		sum, err := engine.Run(ctx, opts)
		if err != nil {
			return eris.Wrap(err, "signup sync")
		}

		fmt.Println(summaryLine(sum))
		return nil
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncPage, "page", 0, "signup page id (default from config)")
	syncCmd.Flags().IntVar(&syncLookback, "lookback", 0, "lookback window in days (default from config)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "extract and normalize without writing to VAN")
	rootCmd.AddCommand(syncCmd)
}

// newEngine wires the sync engine from the loaded config.
func newEngine() *sync.Engine {
	source := actionkit.NewClient(cfg.ActionKit.Domain, cfg.ActionKit.Username, cfg.ActionKit.Password)

	crm := van.NewClient(cfg.VAN.APIKey,
		van.WithBaseURL(cfg.VAN.BaseURL),
		van.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.VAN.TimeoutSecs) * time.Second}),
		van.WithRateLimit(cfg.VAN.RequestsPerSecond),
	)

	var reporter sync.Reporter
	if cfg.Ticker.WebhookURL != "" {
		reporter = ticker.NewClient(cfg.Ticker.WebhookURL)
	}

	return sync.NewEngine(source, crm, reporter, cfg.Ticker.ScriptName)
}

func syncOpts() sync.Options {
	opts := sync.Options{
		PageID:       cfg.ActionKit.PageID,
		LookbackDays: cfg.Sync.LookbackDays,
		DryRun:       syncDryRun,
	}
	if syncPage > 0 {
		opts.PageID = syncPage
	}
	if syncLookback > 0 {
		opts.LookbackDays = syncLookback
	}
	return opts
}

func summaryLine(sum *sync.Summary) string {
	return fmt.Sprintf("Synced %d/%d records (%d contacts, %d survey responses, %d activist codes, %d failed)",
		sum.RecordsSynced, sum.RowsFetched, sum.ContactsUpserted,
		sum.SurveyResponsesApplied, sum.ActivistCodesApplied, sum.RecordsFailed)
}
