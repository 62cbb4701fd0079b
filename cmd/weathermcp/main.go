package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/effective-security/weathermcp/config"
)

// Version is set at build time
var Version = "0.1.0"

// Context is bound to the command's Run
type Context struct {
	context.Context

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	cfg *config.Config
}

// Config returns the loaded configuration
func (c *Context) Config() *config.Config {
	return c.cfg
}

type cli struct {
	Cfg      string           `name:"cfg" short:"c" help:"Configuration file, YAML or JSON" type:"path" env:"WEATHERMCP_CONFIG"`
	LogLevel string           `name:"log-level" short:"l" help:"Overrides the configured log level" enum:",trace,debug,info,notice,warning,error,critical" default:""`
	Version  kong.VersionFlag `help:"Print the version and exit"`

	Stdio stdioCmd `cmd:"" default:"1" help:"Serve MCP over stdin and stdout"`
	HTTP  httpCmd  `cmd:"" name:"http" help:"Serve MCP over HTTP POST"`
	Tools toolsCmd `cmd:"" help:"Print the tools catalogue"`
	Call  callCmd  `cmd:"" help:"Invoke a tool once and print the result"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Exit); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, exit func(int)) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("weathermcp"),
		kong.Description("MCP server for the Open-Meteo geocoding and forecast APIs"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Vars{"version": Version},
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.Cfg)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}

	return kctx.Run(&Context{
		Context: ctx,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		cfg:     cfg,
	})
}
