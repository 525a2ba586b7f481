package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/firestore"
	"github.com/frcscout/fuelscout/internal/pipeline"
	"github.com/frcscout/fuelscout/internal/report"
	"github.com/frcscout/fuelscout/internal/snapshot"
	"github.com/frcscout/fuelscout/internal/storage"
	"github.com/frcscout/fuelscout/internal/tree"
)

// fetch command flags.
var (
	// fetchArchive also stores the flattened records in the SQLite archive.
	fetchArchive bool
	// fetchProject overrides firestore.project from the config.
	fetchProject string
)

// fetchCmd is the cobra command for pulling the scouting tree into a snapshot file.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all scouting data into a snapshot file",
	Long: `Walks the team → match documents under the configured Firestore root,
decodes every field, and writes the snapshot consumed by the other commands.

Unreachable teams or matches are logged and skipped; only a root collection
that cannot be listed aborts the run.

Credentials come from FIRESTORE_TOKEN (OAuth bearer) or FIRESTORE_API_KEY,
read from the environment or a .env file.

Examples:
  fuelscout fetch --snapshot output/fetched_data.json
  fuelscout fetch --project scouting-2026 --archive`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchArchive, "archive", false, "also store flattened records in the SQLite archive (--db)")
	fetchCmd.Flags().StringVar(&fetchProject, "project", "", "Firestore project id (overrides config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := fetcher.FetchAll(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", f.Path, f.Err)
	}

	snap := snapshot.FromResult(res)
	if err := snapshot.Write(snapshotPath, snap); err != nil {
		return err
	}
	slog.Info("snapshot written", "path", snapshotPath, "elapsed", time.Since(start).Round(time.Millisecond))
	report.PrintRunSummary(os.Stdout, "firestore:"+cfg.Firestore.Root, len(res.Teams), len(res.Processed), res.MatchCount(), len(res.Failures))

	if !fetchArchive {
		return nil
	}
	out := pipeline.Run(snap, layout(), cfg.TrackedFields)
	return archive(out, len(res.Processed), len(res.Failures))
}

// newFetcher builds a tree.Fetcher over the configured Firestore database.
func newFetcher() (*tree.Fetcher, error) {
	project := cfg.Firestore.Project
	if fetchProject != "" {
		project = fetchProject
	}
	if project == "" {
		project = os.Getenv("FIRESTORE_PROJECT")
	}
	if project == "" {
		return nil, fmt.Errorf("firestore project not set: use --project, firestore.project in config, or FIRESTORE_PROJECT")
	}

	client := firestore.NewClient(firestore.Config{
		BaseURL:  cfg.Firestore.BaseURL,
		Project:  project,
		Database: cfg.Firestore.Database,
		Token:    os.Getenv("FIRESTORE_TOKEN"),
		APIKey:   os.Getenv("FIRESTORE_API_KEY"),
		PageSize: cfg.Firestore.PageSize,
		Timeout:  cfg.Fetch.Timeout,
	})
	return tree.New(client, cfg.Firestore.Root, tree.Options{
		Concurrency: cfg.Fetch.Concurrency,
		MaxDepth:    cfg.Fetch.MaxDepth,
		Logger:      slog.Default(),
	}), nil
}

// archive stores one run's records in the SQLite archive.
func archive(out *pipeline.Output, processed, failures int) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	runID, err := db.InsertRun(storage.RunSummary{
		FetchedAt: time.Now(),
		Teams:     len(out.Order),
		Processed: processed,
		Matches:   out.MatchCount(),
		Failures:  failures,
	})
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := db.InsertRecords(runID, out.AllRecords()); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	fmt.Printf("Archived %d records to %s (run %d)\n", out.MatchCount(), dbPath, runID)
	return nil
}

// commandContext returns cmd's context or a background one for direct calls.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
