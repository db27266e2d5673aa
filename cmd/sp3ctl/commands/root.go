package commands

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"sp3clock/internal/config"
	"sp3clock/internal/logging"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

var (
	configPath string
	dataDir    string
	jsonOutput bool

	cfg *config.AppConfig
	log *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sp3ctl",
	Short: "Mirror SP3 products and analyse satellite clock stability",
	Long: `sp3ctl downloads SP3 orbit/clock products from the IAC archive into a local
directory and runs the clock analysis (outlier filter, detrend, dedrift,
frequency offset and overlapping Allan deviation) over a date range.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overlaid on the environment configuration")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "./sp3_files", "local SP3 directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration: environment first, then the --config file.
func setup(cmd *cobra.Command, _ []string) error {
	cfg = config.Load()
	if configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log = logging.NewWithWriter(os.Stderr, cfg.Location(), "sp3ctl")
	return nil
}
