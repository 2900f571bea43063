package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Serve       ServeCmd         `cmd:"" help:"Run the heads-up game server"`
	Simulate    SimulateCmd      `cmd:"" help:"Play random matches in memory"`
	CheckConfig CheckConfigCmd   `cmd:"check-config" help:"Load and validate a configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("headsup"),
		kong.Description("Heads-up no-limit Texas hold'em engine"),
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
