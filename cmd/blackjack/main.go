package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play on a simulated table in the terminal"`
	Run      RunCmd           `cmd:"" help:"Drive the real table over I2C, reading buttons from stdin"`
	Assets   AssetsCmd        `cmd:"" help:"Inspect card bitmaps"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games headless and report outcomes"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("BlackJack card table appliance"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
