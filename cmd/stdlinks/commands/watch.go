package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/stdlinks/internal/config"
	"git.home.luguber.info/inful/stdlinks/internal/logfields"
	"git.home.luguber.info/inful/stdlinks/internal/metrics"
)

// WatchCmd implements the 'watch' command: rerun the rewrite whenever a
// markdown source changes. Events are debounced so editor save bursts trigger
// one run. A failed run logs and keeps watching; the previous output stays in
// place because no chapter is committed on failure.
type WatchCmd struct {
	Src      string        `short:"s" help:"Book source directory (overrides config)"`
	Output   string        `short:"o" help:"Output directory for rewritten chapters (overrides config)"`
	Debounce time.Duration `help:"Delay before rebuilding after a change" default:"500ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if w.Src != "" {
		cfg.Book.Src = w.Src
	}
	if w.Output != "" {
		cfg.Book.Output = w.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if cfg.Metrics.Listen != "" {
		pr := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		recorder = pr
		go serveMetrics(ctx, cfg.Metrics.Listen, pr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchRecursive(watcher, cfg.Book.Src); err != nil {
		return err
	}

	runOnce := func() {
		p := newPipeline(cfg)
		p.Recorder = recorder
		if err := runRewriteWith(ctx, cfg, p); err != nil {
			slog.Error("Rewrite failed; keeping previous output", logfields.Error(err))
		}
	}

	// Initial run so the output exists before the first change.
	runOnce()
	slog.Info("Watching for changes", logfields.Path(cfg.Book.Src))

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)
	trigger := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(w.Debounce, func() {
			select {
			case rebuild <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutdown signal received, stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need watching too.
				_ = watchRecursive(watcher, ev.Name)
			}
			if strings.HasSuffix(ev.Name, ".md") || ev.Op.Has(fsnotify.Create) {
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-rebuild:
			runOnce()
		}
	}
}

// watchRecursive adds dir and every subdirectory to the watcher. Non-directory
// paths are ignored.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // path vanished mid-walk; the next event re-adds it
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				slog.Warn("Failed to watch directory", logfields.Path(p), logfields.Error(err))
			}
		}
		return nil
	})
}

func serveMetrics(ctx context.Context, addr string, pr *metrics.PrometheusRecorder) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", pr.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Warn("Metrics server stopped", logfields.Error(err))
	}
}
