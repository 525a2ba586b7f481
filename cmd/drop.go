package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce    bool
	dropSnapshot bool
)

// dropCmd deletes the record archive and, optionally, the snapshot file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the record archive",
	Long:  "Permanently delete the SQLite record archive. Archived fetches will be lost; run 'fetch --archive' afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().BoolVar(&dropSnapshot, "with-snapshot", false, "also delete the snapshot file")
}

func runDrop(cmd *cobra.Command, args []string) error {
	targets := []string{dbPath}
	if dropSnapshot {
		targets = append(targets, snapshotPath)
	}
	if !dropForce {
		for _, t := range targets {
			fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", t)
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, t := range targets {
		if err := os.Remove(t); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(os.Stdout, "%s does not exist, nothing to drop.\n", t)
				continue
			}
			return fmt.Errorf("remove %s: %w", t, err)
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", t)
	}
	return nil
}
