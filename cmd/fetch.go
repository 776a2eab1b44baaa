package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/pywtf/internal/config"
	"github.com/jcdickinson/pywtf/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <project ...>",
	Short: "Download project indexes from another index host",
	Example: `  pywtf fetch --from https://py.wtf requests attrs
  pywtf fetch --from 10.0.0.5:8080 --compress numpy`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFetch,
}

var (
	fetchFrom     string
	fetchCompress bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "index host to download from (default index.base_url)")
	fetchCmd.Flags().BoolVar(&fetchCompress, "compress", false, "store the index as .json.zst")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	from := fetchFrom
	if from == "" {
		from = cfg.Index.BaseURL
	}
	if from == "" {
		fatal("no index host", errors.New("pass --from or set index.base_url"))
	}
	if !hasScheme(from) {
		from = "http://" + from
	}

	repo := store.New(string(cfg.Index.Dir))
	for _, name := range args {
		p, path, err := repo.Fetch(context.Background(), from, name, fetchCompress)
		if err != nil {
			fmt.Printf("  %s: error: %v\n", name, err)
			continue
		}
		fmt.Printf("  %s@%s: %s\n", p.Name, p.Metadata.Version, path)
	}
	fmt.Println("run `pywtf sync` to update the catalog")
}

func hasScheme(addr string) bool {
	return strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://")
}
