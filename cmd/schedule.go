package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/report"
	"github.com/frcscout/fuelscout/internal/schedule"
	"github.com/frcscout/fuelscout/internal/snapshot"
	"github.com/frcscout/fuelscout/internal/tba"
)

var scheduleEvent string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Qualification schedule with scout assignments and coverage",
	Long: `Fetches the event's matches from The Blue Alliance, keeps one row per
qualification match, assigns scouts from the configured rotation, and marks
every robot slot that has no entry in the snapshot.

Requires TBA_API_KEY in the environment or .env.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleEvent, "event", "", "TBA event key (default: event from config)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	event := scheduleEvent
	if event == "" {
		event = cfg.Event
	}
	if event == "" {
		return fmt.Errorf("no event: pass --event or set event in config")
	}
	apiKey := os.Getenv("TBA_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("TBA API key not found: set TBA_API_KEY")
	}

	matches, err := tba.NewClient("", apiKey).EventMatches(commandContext(cmd), event)
	if err != nil {
		return fmt.Errorf("event matches: %w", err)
	}
	slog.Info("fetched event matches", "event", event, "count", len(matches))

	scouted := func(string, int) bool { return false }
	snap, err := snapshot.Read(snapshotPath)
	if err != nil {
		slog.Warn("no snapshot, coverage shows every slot missing", "err", err)
	} else {
		scouted = func(team string, n int) bool {
			_, ok := snap.Root[team][strconv.Itoa(n)]
			return ok
		}
	}

	rows := schedule.Build(matches, schedule.Rotation{
		Groups: cfg.Scouting.Groups,
		Order:  cfg.Scouting.Rotation,
	}, scouted)
	report.PrintScheduleTable(os.Stdout, rows)
	return nil
}
