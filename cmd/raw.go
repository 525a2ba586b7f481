package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/flatten"
	"github.com/frcscout/fuelscout/internal/report"
	"github.com/frcscout/fuelscout/internal/snapshot"
)

var rawJSON bool

var rawCmd = &cobra.Command{
	Use:   "raw [team]",
	Short: "Every scouted field, one row per team and match",
	Long: `Prints the snapshot as scouted, without flattening: one row per
(team, match) with every field the scout filed. Columns follow raw_columns
from the config; any others come after, sorted. robotError is shown as the
list of errors that were flagged.

Examples:
  fuelscout raw
  fuelscout raw 254 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRaw,
}

func init() {
	rawCmd.Flags().BoolVar(&rawJSON, "json", false, "print rows as JSON")
}

func runRaw(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Read(snapshotPath)
	if err != nil {
		return fmt.Errorf("%w (run 'fuelscout fetch' first)", err)
	}

	teams := snap.Teams()
	if len(args) == 1 {
		teams = []string{args[0]}
	}
	var rows []flatten.RawRow
	for _, team := range teams {
		rows = append(rows, flatten.RawTeam(team, snap.Matches(team))...)
	}

	if rawJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		fmt.Println("No scouting rows in the snapshot.")
		return nil
	}
	report.PrintRawTable(os.Stdout, flatten.RawColumns(rows, cfg.RawColumns), rows)
	return nil
}
