package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/docdex/internal/api"
	"github.com/mhollis/docdex/internal/config"
	"github.com/mhollis/docdex/internal/index"
	"github.com/mhollis/docdex/internal/output"
	"github.com/mhollis/docdex/internal/scanner"
	"github.com/mhollis/docdex/internal/search"
	"github.com/mhollis/docdex/internal/watcher"
)

type serveOptions struct {
	host    string
	port    int
	noWatch bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve the index over HTTP",
		Long: `Build the index and expose it over HTTP. The tree is watched for
changes and reindexed automatically unless --no-watch is given.

Endpoints:
  GET  /health
  GET  /api/search?q=<query>&limit=<n>
  POST /api/reindex
  GET  /api/stats

Examples:
  docdex serve ./docs
  docdex serve ./docs --port 9000 --no-watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (default from config)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Disable filesystem watching")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, root string, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := output.New(cmd.OutOrStdout())

	cfg, coord, snap, report, err := buildIndex(ctx, root)
	if err != nil {
		return err
	}

	engine := search.NewEngine(slog.Default())
	engine.Install(snap)
	defer func() { _ = engine.Close() }()

	out.Successf("indexed %d documents (%d sections) in %s",
		report.Documents, report.Sections, report.Duration.Round(durationPrecision))

	rebuild := newRebuildFunc(root, coord, engine)

	srv := api.NewServer(engine, rebuild, api.Options{
		MaxResults:   cfg.Search.MaxResults,
		ExcerptLines: cfg.Search.ExcerptLines,
	}, slog.Default())

	host := opts.host
	if host == "" {
		host = cfg.Server.Host
	}
	port := opts.port
	if port == 0 {
		port = cfg.Server.Port
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if cfg.WatchEnabled() && !opts.noWatch {
		if err := startWatch(ctx, cfg, coord, rebuild, root); err != nil {
			out.Warningf("filesystem watching disabled: %v", err)
		} else {
			out.Dim("watching " + root + " for changes")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		out.Successf("listening on http://%s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	out.Dim("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// newRebuildFunc returns a rebuild that re-reads the config before
// each build, so path and index settings changed under watch take
// effect on the next rebuild. Server host and port still require a
// restart.
func newRebuildFunc(root string, coord *index.Coordinator, engine *search.Engine) api.RebuildFunc {
	return func(ctx context.Context) (*index.Report, error) {
		cfg, err := loadConfig(root)
		if err != nil {
			return nil, err
		}
		snap, report, err := coord.Build(ctx, index.Options{
			Root: root,
			Scan: &scanner.Options{
				Root:             root,
				Include:          cfg.Paths.Include,
				Exclude:          cfg.Paths.Exclude,
				RespectGitignore: true,
			},
			Store: cfg.StoreConfig(),
		})
		if err != nil {
			return nil, err
		}
		engine.Install(snap)
		return report, nil
	}
}

// startWatch launches the watcher and rebuilds the index whenever a
// batch of changes arrives.
func startWatch(ctx context.Context, cfg *config.Config, coord *index.Coordinator, rebuild api.RebuildFunc, root string) error {
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{
		DebounceWindow: debounce,
		IgnorePatterns: cfg.Paths.Exclude,
	})
	if err != nil {
		return err
	}

	go func() { _ = w.Start(ctx, root) }()

	go func() {
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-w.Events():
				if !ok {
					return
				}
				for _, ev := range batch {
					switch ev.Operation {
					case watcher.OpGitignoreChange:
						coord.Scanner().InvalidateGitignoreCache()
					case watcher.OpConfigChange:
						slog.Info("config changed, applying on rebuild", "path", ev.Path)
					}
				}
				slog.Info("changes detected, rebuilding index", "events", len(batch))
				if _, err := rebuild(ctx); err != nil {
					slog.Error("rebuild failed", "error", err)
				}
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				slog.Warn("watcher error", "error", err)
			}
		}
	}()

	return nil
}
