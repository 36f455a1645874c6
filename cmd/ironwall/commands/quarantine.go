package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ironwall "github.com/Krish948/IronWall"
	"github.com/Krish948/IronWall/internal/quarantine"
)

var (
	flagQStatus string
	flagQSearch string
	flagQSort   string
	flagQDesc   bool
	flagQTarget string
	flagMaxAge  int
	flagMaxSize int64
	flagQVerify bool
)

var quarantineCmd = &cobra.Command{
	Use:   "quarantine",
	Short: "Inspect and manage isolated files",
}

var quarantineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quarantine records",
	RunE:  runQuarantineList,
}

var quarantineRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore an isolated file to its original or a given path",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuarantineRestore,
}

var quarantineDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Permanently delete an isolated file",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuarantineDelete,
}

var quarantineCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old or excess Pending records",
	RunE:  runQuarantineCleanup,
}

var quarantineInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show quarantine storage usage",
	RunE:  runQuarantineInfo,
}

func init() {
	quarantineListCmd.Flags().StringVar(&flagQStatus, "status", "", "Filter by status (Pending, Restored, Deleted)")
	quarantineListCmd.Flags().StringVar(&flagQSearch, "search", "", "Filter by file name substring")
	quarantineListCmd.Flags().StringVar(&flagQSort, "sort", "date", "Sort key: date, name, or size")
	quarantineListCmd.Flags().BoolVar(&flagQDesc, "desc", false, "Sort in descending order")
	quarantineRestoreCmd.Flags().StringVar(&flagQTarget, "to", "", "Restore target path (default: original location)")
	quarantineCleanupCmd.Flags().IntVar(&flagMaxAge, "max-age", 0, "Delete Pending records older than this many days")
	quarantineCleanupCmd.Flags().Int64Var(&flagMaxSize, "max-size", 0, "Keep total Pending size under this many MB, oldest deleted first")
	quarantineInfoCmd.Flags().BoolVar(&flagQVerify, "verify", false, "Report Pending records whose isolated file is missing")

	quarantineCmd.AddCommand(quarantineListCmd, quarantineRestoreCmd,
		quarantineDeleteCmd, quarantineCleanupCmd, quarantineInfoCmd)
	rootCmd.AddCommand(quarantineCmd)
}

func runQuarantineList(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	records := engine.Quarantine().List(quarantine.Filter{
		Status: quarantine.Status(flagQStatus),
		Search: flagQSearch,
	}, quarantine.SortKey(flagQSort), flagQDesc)
	if len(records) == 0 {
		fmt.Println("No quarantine records.")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-8s  %-10s  %s  %s\n",
			rec.ID, rec.Status, rec.Severity,
			rec.QuarantinedAt.Format("2006-01-02 15:04"), rec.FileName)
	}
	return nil
}

func runQuarantineRestore(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	rec, err := engine.Quarantine().Restore(args[0], flagQTarget)
	if err != nil {
		return err
	}
	fmt.Printf("Restored %s to %s\n", rec.FileName, rec.RestorePath)
	return nil
}

func runQuarantineDelete(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	rec, err := engine.Quarantine().Delete(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", rec.FileName)
	return nil
}

func runQuarantineCleanup(cmd *cobra.Command, args []string) error {
	if flagMaxAge <= 0 && flagMaxSize <= 0 {
		return fmt.Errorf("cleanup requires --max-age and/or --max-size")
	}
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	n, err := engine.Quarantine().ApplyCleanupPolicy(
		time.Duration(flagMaxAge)*24*time.Hour, flagMaxSize<<20)
	if err != nil {
		return err
	}
	fmt.Printf("Cleaned up %d record(s)\n", n)
	return nil
}

func runQuarantineInfo(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	q := engine.Quarantine()
	info := q.StorageInfo()
	fmt.Printf("Directory:       %s\n", q.Dir())
	fmt.Printf("Pending files:   %d\n", info.PendingCount)
	fmt.Printf("Pending size:    %.2f MB\n", float64(info.PendingSize)/(1<<20))
	if info.AvailableSpace > 0 {
		fmt.Printf("Available space: %.2f GB\n", float64(info.AvailableSpace)/(1<<30))
	}
	if flagQVerify {
		missing := q.VerifyIndex()
		if len(missing) == 0 {
			fmt.Println("Index verified: all Pending files present.")
		} else {
			fmt.Printf("Index check: %d Pending record(s) missing their file:\n", len(missing))
			for _, rec := range missing {
				fmt.Printf("  %s  %s\n", rec.ID, rec.FileName)
			}
		}
	}
	return nil
}
