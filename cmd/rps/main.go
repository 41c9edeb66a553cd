package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/lox/rps/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string           `short:"c" default:"${config_file}" type:"path" help:"Path to HCL config file"`
	LogLevel string           `help:"Override the configured log level (debug, info, warn, error)"`
	Version  kong.VersionFlag `short:"v" help:"Show version"`
}

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

type CLI struct {
	Globals

	Play       PlayCmd       `cmd:"" default:"withargs" help:"Play in the terminal"`
	Serve      ServeCmd      `cmd:"" help:"Run the game headless behind the WebSocket bridge"`
	Simulate   SimulateCmd   `cmd:"" help:"Simulate games between a random player and the bot"`
	InitConfig InitConfigCmd `cmd:"init-config" help:"Write a default config file"`
}

// options configures the kong parser
func options() []kong.Option {
	return []kong.Option{
		kong.Name("rps"),
		kong.Description("Rock paper scissors against a bot, driven by hand gestures"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, options()...)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
