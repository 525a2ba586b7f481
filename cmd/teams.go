package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/pipeline"
	"github.com/frcscout/fuelscout/internal/report"
	"github.com/frcscout/fuelscout/internal/snapshot"
)

var teamsJSON bool

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Per-team fuel averages from the snapshot",
	Long: `Flattens every match in the snapshot, resolves the active hub shifts,
and prints each team's entry count and average fuel per phase.`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func init() {
	teamsCmd.Flags().BoolVar(&teamsJSON, "json", false, "print the aggregate as JSON")
}

func runTeams(cmd *cobra.Command, args []string) error {
	out, err := loadSnapshot()
	if err != nil {
		return err
	}
	if teamsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out.Summaries())
	}
	report.PrintRunSummary(os.Stdout, snapshotPath, len(out.Order), len(out.Order), out.MatchCount(), 0)
	report.PrintTeamTable(os.Stdout, out.Teams(), out.Stats.Tracked(), cfg.HomeTeam)
	return nil
}

// loadSnapshot reads the snapshot file and runs it through the pipeline.
func loadSnapshot() (*pipeline.Output, error) {
	snap, err := snapshot.Read(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'fuelscout fetch' first)", err)
	}
	return pipeline.Run(snap, layout(), cfg.TrackedFields), nil
}
