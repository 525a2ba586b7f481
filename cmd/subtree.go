package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var subtreeCmd = &cobra.Command{
	Use:   "subtree <path>",
	Short: "Dump a decoded Firestore subtree as JSON",
	Long: `Walks an arbitrary document or collection path and prints the decoded
tree with tagged values stripped. Useful for checking a team's layout:

  fuelscout subtree teams/254 --project scouting-2026`,
	Args: cobra.ExactArgs(1),
	RunE: runSubtree,
}

func init() {
	subtreeCmd.Flags().StringVar(&fetchProject, "project", "", "Firestore project id (overrides config)")
}

func runSubtree(cmd *cobra.Command, args []string) error {
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	tree, failures := fetcher.FetchSubtree(commandContext(cmd), args[0])
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", f.Path, f.Err)
	}

	native := make(map[string]any, len(tree))
	for k, v := range tree {
		native[k] = v.Native()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(native)
}
