package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/pywtf/internal/browse"
	"github.com/jcdickinson/pywtf/internal/catalog"
	"github.com/jcdickinson/pywtf/internal/config"
	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/rpc"
	"github.com/jcdickinson/pywtf/internal/server"
	"github.com/jcdickinson/pywtf/internal/store"
)

var version = "0.1.0"

var (
	debug  bool
	remote string
)

var rootCmd = &cobra.Command{
	Use:     "pywtf",
	Short:   "Browse and search Python package documentation",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupConsoleLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log to the terminal at debug level")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "query a running server at this address instead of the local index")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// backend is what query commands need; both the in-process service and a
// remote server client provide it.
type backend interface {
	Projects(ctx context.Context) (*rpc.ProjectsResponse, error)
	Symbol(ctx context.Context, project, module, symbol string) (*rpc.SymbolResponse, error)
	Search(ctx context.Context, project, query string, limit int) (*rpc.SearchResponse, error)
}

// connect returns the remote server client when --remote is set, otherwise
// an in-process service over the configured index directory.
func connect() (backend, func() error, error) {
	if remote != "" {
		return server.NewClient(remote), func() error { return nil }, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return openService(cfg, false)
}

// openService builds the browse service from configuration. The catalog is
// opened when enabled; a catalog that cannot be opened (usually because a
// server holds the database lock) is only fatal when required.
func openService(cfg *config.Config, requireCatalog bool) (*browse.Service, func() error, error) {
	var cat *catalog.Catalog
	if cfg.Catalog.Enabled || requireCatalog {
		c, err := catalog.Open(string(cfg.Catalog.Path))
		switch {
		case err == nil:
			cat = c
		case requireCatalog:
			return nil, nil, fmt.Errorf("opening catalog: %w", err)
		default:
			slog.Warn("catalog unavailable, searching index files directly", "path", cfg.Catalog.Path, "error", err)
		}
	}

	repo := store.New(string(cfg.Index.Dir))
	svc := browse.New(repo, cat, docs.URLs{Base: cfg.Index.BaseURL}, cfg.Search.Limit)
	closer := func() error {
		if cat == nil {
			return nil
		}
		return cat.Close()
	}
	return svc, closer, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API over the index directory",
	Run:   runServe,
}

var (
	serveAddr  string
	serveWatch bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload projects when index files change")
}

func runServe(cmd *cobra.Command, args []string) {
	if !debug {
		logPath := config.LogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			fatal("failed to create log directory", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fatal("failed to open log file", err)
		}
		defer logFile.Close()
		setupFileLogging(logFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	svc, closeService, err := openService(cfg, false)
	if err != nil {
		fatal("failed to open index", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := svc.Sync(ctx, cfg.Sync.Concurrency, nil); err != nil && !errors.Is(err, browse.ErrNoCatalog) {
		slog.Error("initial catalog sync failed", "error", err)
	}

	if serveWatch {
		go func() {
			err := svc.Repository().Watch(ctx, store.DefaultDebounce, func(names []string) {
				slog.Info("index files changed", "projects", names)
				svc.Refresh(ctx, names)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("index watcher stopped", "error", err)
			}
		}()
	}

	srv := server.New(svc, cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	if err := waitForSignal(errCh); err != nil {
		closeService()
		fatal("server error", err)
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer stop()
	if err := errors.Join(srv.Stop(shutdownCtx), closeService()); err != nil {
		fatal("shutdown failed", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		slog.Info("received signal", "signal", sig.String())
		return nil
	case err := <-errCh:
		return err
	}
}
