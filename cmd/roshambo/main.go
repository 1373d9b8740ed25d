package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Globals

	Play     PlayCmd     `cmd:"" default:"1" help:"Play in the terminal"`
	Serve    ServeCmd    `cmd:"" help:"Serve the browser game"`
	Simulate SimulateCmd `cmd:"" help:"Play many headless games and report statistics"`
}

// Globals are flags shared by every command
type Globals struct {
	Config  string `short:"c" default:"roshambo.hcl" type:"path" help:"Path to HCL configuration file"`
	Debug   bool   `help:"Enable debug logging"`
	NoColor bool   `help:"Disable colour output"`
	Seed    *int64 `help:"Deterministic RNG seed (optional)"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("roshambo"),
		kong.Description("Rock, paper, scissors against a random opponent"),
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
