package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/stdlinks/cmd/stdlinks/commands"
	"git.home.luguber.info/inful/stdlinks/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("stdlinks"),
		kong.Description("Rewrite standard-library symbol links in a markdown book to versioned rustdoc URLs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
