package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	"git.home.luguber.info/inful/stdlinks/internal/config"
	"git.home.luguber.info/inful/stdlinks/internal/logfields"
	"git.home.luguber.info/inful/stdlinks/internal/pipeline"
)

// RewriteCmd implements the 'rewrite' command: one full run over a book
// source directory, writing rewritten chapters to the output directory.
type RewriteCmd struct {
	Src    string `short:"s" help:"Book source directory (overrides config)"`
	Output string `short:"o" help:"Output directory for rewritten chapters (overrides config)"`
}

func (r *RewriteCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if r.Src != "" {
		cfg.Book.Src = r.Src
	}
	if r.Output != "" {
		cfg.Book.Output = r.Output
	}

	return runRewrite(context.Background(), cfg)
}

func runRewrite(ctx context.Context, cfg *config.Config) error {
	return runRewriteWith(ctx, cfg, newPipeline(cfg))
}

func runRewriteWith(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline) error {
	bk, err := book.LoadDir(cfg.Book.Src)
	if err != nil {
		return err
	}
	slog.Info("Loaded book", logfields.Path(cfg.Book.Src), logfields.Count(len(bk.Chapters)))

	report, err := p.Run(ctx, bk)
	if err != nil {
		return err
	}

	if err := bk.WriteDir(cfg.Book.Output); err != nil {
		return err
	}

	slog.Info("Rewrite complete",
		logfields.RunID(report.RunID),
		slog.Int("chapters", report.Chapters),
		slog.Int("candidates", report.Candidates),
		slog.Int("rewritten", report.Rewritten),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return nil
}
