package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/stdlinks/internal/config"
	"git.home.luguber.info/inful/stdlinks/internal/mdbook"
)

// PreprocessCmd implements the mdbook preprocessor contract. book.toml wires
// it up with:
//
//	[preprocessor.stdlinks]
//	command = "stdlinks preprocess"
//
// mdbook probes renderer support with `stdlinks preprocess supports <name>`.
type PreprocessCmd struct {
	Args []string `arg:"" optional:"" help:"Preprocessor protocol arguments (e.g. 'supports html')"`
}

func (p *PreprocessCmd) Run(_ *Global, root *CLI) error {
	if len(p.Args) > 0 {
		if p.Args[0] == "supports" {
			// All renderers are supported; the rewrite is renderer-agnostic.
			return nil
		}
		return fmt.Errorf("unknown preprocessor argument: %s", p.Args[0])
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bk, err := mdbook.ReadInput(os.Stdin)
	if err != nil {
		return err
	}

	chapters, commit := bk.Bind()
	if _, err := newPipeline(cfg).Run(context.Background(), chapters); err != nil {
		return err
	}
	commit()

	return bk.WriteOutput(os.Stdout)
}
