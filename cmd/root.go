package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/frcscout/fuelscout/internal/config"
	"github.com/frcscout/fuelscout/internal/flatten"
)

// Persistent flags shared by every command.
var (
	configPath   string
	snapshotPath string
	dbPath       string
	logLevel     string
	logFile      string
)

// cfg is loaded once per invocation in the root PersistentPreRunE.
var cfg *config.Config

// logCloser closes the --log-file handle after the command finishes.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "fuelscout",
	Short: "FRC scouting fuel metrics tool",
	Long: `Fetch match scouting data from Firestore, compute per-team fuel averages,
and estimate a team's scoring edge against the rest of the field.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	home := filepath.Join(mustUserHome(), ".fuelscout")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fuelscout.yaml", "path to YAML config (optional)")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "fetched_data.json", "snapshot file written by fetch (.zst to compress)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(home, "archive.db"), "path to SQLite record archive")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append logs to this file")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(subtreeCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads .env, configures slog and reads the config file.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	logger, closer, err := newLogger(os.Stderr, logLevel, logFile)
	if err != nil {
		return err
	}
	logCloser = closer
	slog.SetDefault(logger)

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c
	slog.Debug("config loaded", "path", configPath, "root", cfg.Firestore.Root, "home_team", cfg.HomeTeam)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

// newLogger builds a text slog logger writing to w and, when path is set,
// appending to that file as well.
func newLogger(w io.Writer, level, path string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	var closer io.Closer
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(w, fh)
		closer = fh
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closer, nil
}

// layout converts the configured shift roles.
func layout() flatten.Layout {
	return flatten.Layout{
		FirstActive:  flatten.ShiftRole{Primary: cfg.Layout.FirstActive.Primary, Alternate: cfg.Layout.FirstActive.Alternate},
		SecondActive: flatten.ShiftRole{Primary: cfg.Layout.SecondActive.Primary, Alternate: cfg.Layout.SecondActive.Alternate},
	}
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
