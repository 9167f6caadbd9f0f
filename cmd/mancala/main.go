package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/mancala/cmd/mancala/shared"
	"github.com/lox/mancala/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every sub-command.
type Globals struct {
	Config  string `short:"c" default:"mancala.hcl" type:"path" env:"MANCALA_CONFIG" help:"HCL config file; defaults apply when it does not exist"`
	Debug   bool   `help:"Enable debug logging"`
	LogJSON bool   `name:"log-json" help:"Output JSON logs instead of console format"`
}

func (g *Globals) logger() zerolog.Logger {
	return shared.SetupLogger(g.Debug, g.LogJSON)
}

func (g *Globals) load() (*config.Config, error) {
	return config.Load(g.Config)
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play a game in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play a series of games between two bots and report statistics"`
	Replay   ReplayCmd        `cmd:"" help:"Verify and render a saved game record"`
	Position PositionCmd      `cmd:"" help:"Render a wire position and list its legal moves"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mancala"),
		kong.Description("Mancala rules engine, external engine client and match tooling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
