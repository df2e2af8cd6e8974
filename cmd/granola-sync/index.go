// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/granola-sync/internal/index"
	"github.com/pdiddy/granola-sync/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Search and export the meeting index",
	Long: `Index works with the SQLite meeting index that sync maintains under
{output-dir}/index/granola.db. Use subcommands to search it, export it, or
list recent sync runs.`,
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed meetings with full-text search and filters",
	Long: `Search matches the query against meeting titles, notes, AI summaries,
and transcripts using SQLite full-text search. Results can be narrowed by
folder and participant and are listed newest first.`,
	RunE: runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --folder, or --participant")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(os.Stdout, results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []types.Meeting, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []types.Meeting{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-40s  %-20s  %-8s  %s\n",
		"Date", "Title", "Folder", "Duration", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, m := range results {
		date := m.CreatedAt
		if len([]rune(date)) > 10 {
			date = string([]rune(date)[:10])
		}
		fmt.Fprintf(w, "%-10s  %-40s  %-20s  %-8s  %s\n",
			date, truncate(m.Title, 40), truncate(m.Folder, 20), m.Duration, m.ID)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export indexed meetings to YAML or JSON",
	Long: `Export writes the whole index (or a filtered subset) to
{output-dir}/index/export.yaml or export.json. Supports the same filters
as search for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- runs subcommand ---

var indexRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent sync runs recorded in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.NewStore(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(context.Background(), limit)
		if err != nil {
			return err
		}
		formatRuns(os.Stdout, runs)
		return nil
	},
}

func formatRuns(w io.Writer, runs []index.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No sync runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  synced: %d, skipped: %d, failed: %d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID, r.Synced, r.Skipped, r.Failed)
	}
}

// --- shared helpers ---

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		OutputConfig: types.OutputConfig{OutputDir: viper.GetString("output_dir")},
		MaxResults:   viper.GetInt("max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	folder, _ := cmd.Flags().GetString("folder")
	participant, _ := cmd.Flags().GetString("participant")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:       strings.Join(args, " "),
		Folder:      folder,
		Participant: participant,
		MaxResults:  limit,
	}
}

func init() {
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	mustBind("max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	// Search flags.
	indexSearchCmd.Flags().String("folder", "", "filter by folder title")
	indexSearchCmd.Flags().String("participant", "", "filter by participant name or email")
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("folder", "", "filter by folder for partial export")
	indexExportCmd.Flags().String("participant", "", "filter by participant for partial export")

	// Runs flags.
	indexRunsCmd.Flags().Int("limit", 10, "number of runs to list")

	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(indexRunsCmd)

	rootCmd.AddCommand(indexCmd)
}
