package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	ironwall "github.com/Krish948/IronWall"
	"github.com/Krish948/IronWall/internal/config"
)

var (
	flagWorkers   int
	flagSizeCapMB int64
	flagJSON      bool
	flagQuiet     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan directories for threats",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker pool cap (default: min(16, 2×CPU))")
	scanCmd.Flags().Int64Var(&flagSizeCapMB, "size-cap", 0, "Per-file size limit in MB (default: 100)")
	scanCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit the full report as JSON")
	scanCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print threats and the summary")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := engineOptions()

	// Config from the first scanned path; flags win over file settings.
	cfg, err := config.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	opts = append([]ironwall.Option{ironwall.FromConfig(cfg)}, opts...)

	if flagWorkers > 0 {
		opts = append(opts, ironwall.WithWorkers(flagWorkers))
	}
	if flagSizeCapMB > 0 {
		opts = append(opts, ironwall.WithSizeCap(flagSizeCapMB<<20))
	}

	engine, err := ironwall.New(opts...)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithInterrupt(engine.Session())
	defer cancel()

	var results []ironwall.Result
	summary, err := engine.Scan(ctx, args,
		func(r ironwall.Result) {
			if flagJSON {
				results = append(results, r)
				return
			}
			printResult(r)
		},
		func(p ironwall.Progress) {
			if !flagJSON && !flagQuiet {
				fmt.Fprintf(os.Stderr, "\rscanned %d files, %d threats", p.FilesScanned, p.ThreatsFound)
			}
		})
	if err != nil {
		return err
	}
	if !flagJSON && !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ironwall.Report{Summary: summary, Results: results})
	}

	state := engine.Session().State()
	fmt.Printf("\n%s: %d files scanned, %d threats found in %.2fs\n",
		state, summary.FilesScanned, summary.ThreatsFound, summary.Duration.Seconds())
	if summary.FilesScanned == 0 && state == ironwall.StateCompleted {
		fmt.Println("No files found under the given paths.")
	}
	return nil
}

func printResult(r ironwall.Result) {
	if r.Classification.Verdict == ironwall.VerdictClean {
		if !flagQuiet {
			fmt.Printf("  clean  %s\n", r.File.Path)
		}
		return
	}
	fmt.Printf("  THREAT [%s] %s: %s", r.Classification.Verdict, r.File.Path, r.Classification.Label)
	if r.QuarantineID != "" {
		fmt.Printf(" (quarantined: %s)", r.QuarantineID)
	}
	fmt.Println()
}

// contextWithInterrupt cancels on Ctrl-C and also flips the session's
// stop flag so in-flight batches wind down cooperatively.
func contextWithInterrupt(session *ironwall.Session) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			session.Stop()
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
