// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/granola-sync/internal/cache"
	"github.com/pdiddy/granola-sync/internal/index"
	"github.com/pdiddy/granola-sync/internal/syncer"
	"github.com/pdiddy/granola-sync/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write Granola meetings from the local cache as Markdown",
	Long: `Sync reads the Granola cache, filters meetings by creation date and
folder, and writes meetings/{date}_{title}_{id}.md for each meeting plus
transcripts/{date}_{title}_{id}_transcript.md when a transcript exists.
Synced meetings are added to the search index unless --no-index is given.

A meeting that cannot be written is reported and counted; the remaining
meetings are still synced and the command exits non-zero at the end.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := syncConfig(cmd)
	log := loggerFor(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stdout, "Loading Granola cache from: %s\n", cfg.CachePath)
	state, err := cache.Load(cfg.CachePath)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := syncer.Run(ctx, state, cfg, started, os.Stdout, log)
	if err != nil {
		return err
	}

	if cfg.Index {
		if err := indexRun(ctx, cfg, started, result, os.Stdout, log); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d meeting(s) failed to sync", result.Failed)
	}
	return nil
}

// indexRun adds the synced meetings to the index and records the run.
func indexRun(ctx context.Context, cfg types.SyncConfig, started time.Time, result syncer.Result, w io.Writer, log zerolog.Logger) error {
	store, err := index.NewStore(types.IndexConfig{OutputConfig: cfg.OutputConfig})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Upsert(ctx, result.Meetings); err != nil {
		return err
	}
	run, err := store.RecordRun(ctx, index.Run{
		StartedAt: started,
		Synced:    result.Synced,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("run_id", run.ID).Int("meetings", len(result.Meetings)).Msg("index updated")
	fmt.Fprintf(w, "Indexed %d meetings (run %s)\n", len(result.Meetings), run.ID)
	return nil
}

// syncConfig resolves sync settings from flags, environment, and config
// file, in viper's precedence order.
func syncConfig(cmd *cobra.Command) types.SyncConfig {
	cfg := types.SyncConfig{
		OutputConfig:       types.OutputConfig{OutputDir: viper.GetString("output_dir")},
		CachePath:          viper.GetString("cache_path"),
		Days:               viper.GetInt("days"),
		Folder:             viper.GetString("folder"),
		IncludeTranscripts: viper.GetBool("include_transcripts"),
		Index:              viper.GetBool("index"),
	}
	if noTranscripts, _ := cmd.Flags().GetBool("no-transcripts"); noTranscripts {
		cfg.IncludeTranscripts = false
	}
	if noIndex, _ := cmd.Flags().GetBool("no-index"); noIndex {
		cfg.Index = false
	}
	if cfg.CachePath == "" {
		cfg.CachePath = cache.DefaultPath()
	}
	return cfg
}

func init() {
	syncCmd.Flags().String("cache-path", "", "Granola cache file (default: ~/"+cache.DefaultFile+")")
	syncCmd.Flags().Int("days", types.DefaultSyncDays, "sync meetings created in the last N days (0 = all)")
	syncCmd.Flags().String("folder", "", "only sync meetings in this folder")
	syncCmd.Flags().Bool("no-transcripts", false, "skip transcript documents (notes only)")
	syncCmd.Flags().Bool("no-index", false, "do not update the search index")

	mustBind("cache_path", syncCmd.Flags().Lookup("cache-path"))
	mustBind("days", syncCmd.Flags().Lookup("days"))
	mustBind("folder", syncCmd.Flags().Lookup("folder"))

	rootCmd.AddCommand(syncCmd)
}
