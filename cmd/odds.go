package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/pipeline"
	"github.com/frcscout/fuelscout/internal/report"
)

var (
	oddsHome string
	oddsJSON bool
)

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Running win estimate for a team against the field",
	Long: `For each match the home team played, the differential is the team's
totalFuel minus the summed totalFuel of every other scouted team in that match.
The estimate after each match models all differentials so far as a normal
distribution (population standard deviation) and reports P(diff > 0).

With a single match, or identical differentials, the estimate is 100%, 0% or
50% by the sign of the mean.`,
	Args: cobra.NoArgs,
	RunE: runOdds,
}

func init() {
	oddsCmd.Flags().StringVar(&oddsHome, "home", "", "reference team (default: home_team from config)")
	oddsCmd.Flags().BoolVar(&oddsJSON, "json", false, "print estimates as JSON")
}

func runOdds(cmd *cobra.Command, args []string) error {
	home := oddsHome
	if home == "" {
		home = cfg.HomeTeam
	}
	if home == "" {
		return fmt.Errorf("no home team: pass --home or set home_team in config")
	}

	out, err := loadSnapshot()
	if err != nil {
		return err
	}
	estimates := out.Estimate(home)
	if oddsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pipeline.EstimateRows(estimates))
	}
	if len(estimates) == 0 {
		fmt.Printf("no matches found for team %s\n", home)
		return nil
	}
	report.PrintEstimateTable(os.Stdout, home, estimates)
	return nil
}
