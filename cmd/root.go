package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldworks/signup-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "signup-sync",
	Short: "Volunteer signup sync from ActionKit to VAN",
	Long:  "Extracts yesterday's volunteer-signup records from the ActionKit reporting API, upserts each signer into MyCampaign VAN, and applies survey responses or activist codes mapped from their questionnaire answers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
