package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/pywtf/internal/config"
	"github.com/jcdickinson/pywtf/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Run:   runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	svc, closeService, err := openService(cfg, false)
	if err != nil {
		fatal("failed to open index", err)
	}
	defer closeService()

	s := mcp.NewServer(svc, version)

	errCh := make(chan error)
	go func() { errCh <- s.Run() }()

	if err := waitForSignal(errCh); err != nil {
		fatal("server error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Shutdown(ctx)
}
