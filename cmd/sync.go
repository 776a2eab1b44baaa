package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/pywtf/internal/config"
	"github.com/jcdickinson/pywtf/internal/rpc"
	"github.com/jcdickinson/pywtf/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record every project in the index directory in the catalog",
	Run:   runSync,
}

func runSync(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	svc, closeService, err := openService(cfg, true)
	if err != nil {
		fatal("failed to open index", err)
	}
	defer closeService()

	results, err := svc.Sync(context.Background(), cfg.Sync.Concurrency, func(r rpc.SyncResult) {
		if r.Error != "" {
			fmt.Printf("  %s: error: %s\n", r.Name, r.Error)
			return
		}
		fmt.Printf("  %s@%s: %d symbols\n", r.Name, r.Version, r.Symbols)
	})
	if err != nil {
		fatal("sync failed", err)
	}
	if len(results) == 0 {
		fmt.Println("no projects found in", cfg.Index.Dir)
	}
}

var packCmd = &cobra.Command{
	Use:   "pack [project ...]",
	Short: "Compress index files with zstd",
	Long:  `Rewrite plain .json index files as .json.zst. Without arguments every project in the index directory is packed.`,
	Run:   runPack,
}

var packRemove bool

func init() {
	packCmd.Flags().BoolVar(&packRemove, "remove", false, "delete the plain .json file after packing")
}

func runPack(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	repo := store.New(string(cfg.Index.Dir))

	names := args
	if len(names) == 0 {
		if names, err = repo.List(); err != nil {
			fatal("listing projects failed", err)
		}
	}

	for _, name := range names {
		path, err := repo.Pack(name, packRemove)
		switch {
		case errors.Is(err, store.ErrProjectNotFound):
			fmt.Printf("  %s: no plain index file\n", name)
		case err != nil:
			fatal("pack failed", err)
		default:
			fmt.Printf("  %s: %s\n", name, path)
		}
	}
}
