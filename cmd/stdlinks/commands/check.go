package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/stdlinks/internal/book"
	"git.home.luguber.info/inful/stdlinks/internal/collector"
	"git.home.luguber.info/inful/stdlinks/internal/config"
)

// CheckCmd implements the 'check' command: a collect-only dry run that lists
// every candidate link per chapter without invoking the resolver or touching
// any file. Link-title violations still fail, exactly as they would in a real
// run.
type CheckCmd struct {
	Src string `short:"s" help:"Book source directory (overrides config)"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.Src != "" {
		cfg.Book.Src = c.Src
	}

	bk, err := book.LoadDir(cfg.Book.Src)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	total := 0
	for _, ch := range bk.Chapters {
		cands, err := collector.Collect(ch)
		if err != nil {
			return err
		}
		for _, cand := range cands {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ch.Path, cand.Style, cand.Dest)
		}
		total += len(cands)
	}
	fmt.Fprintf(w, "\t\t%d candidate(s)\n", total)
	return nil
}
