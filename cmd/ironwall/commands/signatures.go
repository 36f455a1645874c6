package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	ironwall "github.com/Krish948/IronWall"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
)

var (
	flagSigName     string
	flagSigFamily   string
	flagSigSeverity string
	flagSigDesc     string
	flagSigPattern  bool
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures",
	Short: "Manage the local threat database",
}

var signaturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known hashes and database stats",
	RunE:  runSignaturesList,
}

var signaturesAddCmd = &cobra.Command{
	Use:   "add <md5-digest | pattern>",
	Short: "Add a hash signature or, with --pattern, a plain-text pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignaturesAdd,
}

var signaturesRemoveCmd = &cobra.Command{
	Use:   "remove <md5-digest | pattern>",
	Short: "Remove a hash signature or, with --pattern, a plain-text pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignaturesRemove,
}

func init() {
	signaturesAddCmd.Flags().StringVar(&flagSigName, "name", "", "Threat name")
	signaturesAddCmd.Flags().StringVar(&flagSigFamily, "family", "", "Threat family")
	signaturesAddCmd.Flags().StringVar(&flagSigSeverity, "severity", "High", "Severity: Low, Medium, High, or Critical")
	signaturesAddCmd.Flags().StringVar(&flagSigDesc, "description", "", "Free-form description")
	signaturesAddCmd.Flags().BoolVar(&flagSigPattern, "pattern", false, "Treat the argument as a text pattern instead of a digest")
	signaturesRemoveCmd.Flags().BoolVar(&flagSigPattern, "pattern", false, "Treat the argument as a text pattern instead of a digest")

	signaturesCmd.AddCommand(signaturesListCmd, signaturesAddCmd, signaturesRemoveCmd)
	rootCmd.AddCommand(signaturesCmd)
}

func runSignaturesList(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	store := engine.Signatures()

	entries := store.Entries()
	digests := make([]string, 0, len(entries))
	for d := range entries {
		digests = append(digests, d)
	}
	sort.Strings(digests)
	for _, d := range digests {
		e := entries[d]
		fmt.Printf("%s  %-10s  %s\n", d, e.Severity, e.Name)
	}

	st := store.Stats()
	fmt.Printf("\n%d hashes, %d patterns, %d rules\n", st.Hashes, st.Patterns, st.Rules)
	return nil
}

func runSignaturesAdd(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	store := engine.Signatures()

	if flagSigPattern {
		if err := store.AddPattern(args[0]); err != nil {
			return err
		}
		fmt.Printf("Added pattern %q\n", args[0])
		return nil
	}

	sev, err := types.ParseSeverity(flagSigSeverity)
	if err != nil {
		return err
	}
	name := flagSigName
	if name == "" {
		name = "Unknown_Threat"
	}
	if err := store.Add(args[0], signature.Entry{
		Name:        name,
		Family:      flagSigFamily,
		Severity:    sev,
		Description: flagSigDesc,
	}); err != nil {
		return err
	}
	fmt.Printf("Added signature %s (%s)\n", args[0], name)
	return nil
}

func runSignaturesRemove(cmd *cobra.Command, args []string) error {
	engine, err := ironwall.New(engineOptions()...)
	if err != nil {
		return err
	}
	store := engine.Signatures()

	if flagSigPattern {
		if err := store.RemovePattern(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed pattern %q\n", args[0])
		return nil
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed signature %s\n", args[0])
	return nil
}
