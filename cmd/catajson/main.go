package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logr.Logger

	config *catajson.Config
}

// LoadConfig loads the configuration once per run
func (c *Context) LoadConfig() (*catajson.Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	config, err := catajson.LoadConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.config = config

	return config, nil
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"catajson.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Lint    LintCmd    `cmd:"" help:"Check translatable text in JSON files"`
	Fmt     FmtCmd     `cmd:"" help:"Rewrite JSON files in canonical form"`
	Compact CompactCmd `cmd:"" help:"Run-length encode configured arrays"`
	Expand  ExpandCmd  `cmd:"" help:"Expand run-length encoded arrays"`
	YAML    YAMLCmd    `cmd:"" name:"yaml" help:"Export a JSON document as YAML"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Version is set at build time
var Version = "v0.1.0"

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "catajson %s\n", Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     logr.Discard(),
	}

	if config, err := appCtx.LoadConfig(); err == nil {
		log, sync, err := newLogger(config.Logging, CLI.Verbose, CLI.Quiet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer sync()
		appCtx.Log = log
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
