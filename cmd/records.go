package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/report"
	"github.com/frcscout/fuelscout/internal/storage"
)

var recordsCmd = &cobra.Command{
	Use:   "records [team]",
	Short: "Show archived match records",
	Long: `Without arguments, lists every team in the SQLite archive. With a team
number, prints that team's archived matches with the resolved active shifts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecords,
}

func runRecords(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		run, err := db.LatestRun()
		if err != nil {
			return fmt.Errorf("latest run: %w", err)
		}
		if run == nil {
			fmt.Fprintln(os.Stdout, "Archive is empty. Run 'fuelscout fetch --archive' to add records.")
			return nil
		}
		teams, err := db.ListTeams()
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		report.PrintRunSummary(os.Stdout, "archive "+run.FetchedAt.Format("2006-01-02 15:04"), run.Teams, run.Processed, run.Matches, run.Failures)
		report.PrintArchiveTable(os.Stdout, teams)
		return nil
	}

	records, err := db.TeamRecords(args[0])
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintRecordTable(os.Stdout, records, cfg.TrackedFields)
	return nil
}
