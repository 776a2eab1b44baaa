package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/pywtf/internal/config"
	"github.com/jcdickinson/pywtf/internal/server"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop a running server's project and search caches",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	addr := remote
	if addr == "" {
		cfg, err := config.Load()
		if err != nil {
			fatal("failed to load config", err)
		}
		addr = cfg.Server.Addr
	}

	if err := server.NewClient(addr).ClearCache(context.Background()); err != nil {
		fatal("failed to clear cache", err)
	}
	fmt.Println("caches cleared")
}
