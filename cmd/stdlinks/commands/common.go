package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/stdlinks/internal/config"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
	"git.home.luguber.info/inful/stdlinks/internal/pipeline"
	"git.home.luguber.info/inful/stdlinks/internal/resolver"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"stdlinks.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Rewrite    RewriteCmd    `cmd:"" help:"Rewrite standard-library links in a book source directory"`
	Preprocess PreprocessCmd `cmd:"" help:"Run as an mdbook preprocessor (JSON on stdin/stdout)"`
	Check      CheckCmd      `cmd:"" help:"Collect and list candidate links without rewriting"`
	Watch      WatchCmd      `cmd:"" help:"Rewrite continuously as book sources change"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newPipeline assembles the standard rustdoc-backed pipeline from config.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	pats := patterns.New()
	res := resolver.NewRustdoc(pats, cfg.Resolver.Binary, cfg.Resolver.Edition)
	return pipeline.New(res, pats, cfg.RelativeLinks())
}
