// Command riposte trains, serves, and plays heads-up no-limit hold'em
// against the CFR blueprint and Bladework bots in this module.
package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is the top-level command tree, following the same kong.Parse/ctx.Run
// shape as the single-binary poker CLIs this one is descended from.
type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Train       TrainCmd         `cmd:"" help:"Train a CFR blueprint"`
	Match       MatchCmd         `cmd:"" help:"Play one match between two bots"`
	MatchSeries MatchSeriesCmd   `cmd:"" name:"match_series" help:"Play a series of matches and report aggregate stats"`
	Serve       ServeCmd         `cmd:"" help:"Run the websocket game server"`
	Play        PlayCmd          `cmd:"" help:"Play interactively against a bot in a terminal UI"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("riposte"),
		kong.Description("Heads-up no-limit hold'em: CFR trainer, bots, and table server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
