package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ironwall "github.com/Krish948/IronWall"
)

var (
	flagDataDir       string
	flagQuarantineDir string
	flagSignaturePath string
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "ironwall",
	Short: "Endpoint malware scanner with reversible quarantine",
	Long:  `IronWall walks a filesystem, classifies files against known-bad hashes and pattern rules, and isolates confirmed threats into a reversible quarantine.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Base directory for signature store, quarantine, and history (default: ~/.ironwall)")
	rootCmd.PersistentFlags().StringVar(&flagQuarantineDir, "quarantine-dir", "", "Quarantine directory (default: <data-dir>/quarantine)")
	rootCmd.PersistentFlags().StringVar(&flagSignaturePath, "signatures", "", "Signature database path (default: <data-dir>/threat_database.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// engineOptions assembles the options shared by every subcommand.
func engineOptions() []ironwall.Option {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []ironwall.Option{ironwall.WithLogger(logger)}
	if flagDataDir != "" {
		opts = append(opts, ironwall.WithDataDir(flagDataDir))
	}
	if flagQuarantineDir != "" {
		opts = append(opts, ironwall.WithQuarantineDir(flagQuarantineDir))
	}
	if flagSignaturePath != "" {
		opts = append(opts, ironwall.WithSignaturePath(flagSignaturePath))
	}
	return opts
}
