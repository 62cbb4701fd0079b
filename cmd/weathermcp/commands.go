package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/app"
	"github.com/effective-security/weathermcp/callbacks"
	"github.com/effective-security/weathermcp/encoding"
	"github.com/effective-security/weathermcp/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp/cmd", "weathermcp")

const shutdownTimeout = 10 * time.Second

type stdioCmd struct{}

// Run serves until stdin is closed or the process is signalled.
// Logs go to stderr, stdout carries the protocol only.
func (c *stdioCmd) Run(ctx *Context) error {
	cfg := ctx.Config()
	app.ConfigureLogging(cfg.Log, ctx.Stderr)

	in := newEOFReader(ctx.Stdin)
	tr := newInflight(stdio.NewStdioServerTransportWithIO(in, ctx.Stdout))
	server, err := app.New(cfg).NewServer(tr)
	if err != nil {
		return err
	}
	if err = server.Serve(); err != nil {
		return errors.WithMessage(err, "failed to serve")
	}
	logger.KV(xlog.INFO, "status", "serving", "transport", "stdio")

	select {
	case <-ctx.Done():
		logger.KV(xlog.INFO, "status", "stopped", "transport", "stdio")
		return nil
	case <-in.Done():
	}

	// requests read before EOF are answered, up to the upstream timeout
	wctx, cancel := context.WithTimeout(ctx, cfg.OpenMeteo.Timeout()+drainMargin)
	defer cancel()
	if !tr.Wait(wctx) {
		logger.KV(xlog.WARNING, "status", "drain_timeout", "pending", tr.Pending())
	}
	logger.KV(xlog.INFO, "status", "stopped", "transport", "stdio")
	return nil
}

type httpCmd struct {
	Listen string `help:"Address to listen on, overrides the configured one"`
}

// Run serves until the process is signalled, then shuts down gracefully
func (c *httpCmd) Run(ctx *Context) error {
	cfg := ctx.Config()
	app.ConfigureLogging(cfg.Log, ctx.Stderr)

	handler, err := app.New(cfg).NewHTTPHandler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              values.StringsCoalesce(c.Listen, cfg.HTTP.Listen),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// a tool call may take up to the upstream timeout
		WriteTimeout: cfg.OpenMeteo.Timeout() + 10*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.KV(xlog.INFO, "status", "serving", "addr", server.Addr, "endpoint", cfg.HTTP.Endpoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WithMessagef(err, "failed to listen on %s", server.Addr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.KV(xlog.INFO, "status", "shutting_down", "addr", server.Addr)
		return server.Shutdown(sctx)
	})
	return g.Wait()
}

type toolsCmd struct {
	Format string `short:"f" help:"Output format: json|yaml|toml" enum:"json,yaml,toml" default:"json"`
}

// Run prints the tools catalogue
func (c *toolsCmd) Run(ctx *Context) error {
	res, err := tools.GetDescriptions(c.Format, app.New(ctx.Config()).Tools()...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Stdout, res)
	return err
}

type callCmd struct {
	Tool    string            `arg:"" help:"Tool name"`
	Input   string            `arg:"" optional:"" help:"Tool arguments document, {} if not provided"`
	Format  string            `short:"f" help:"Format of the arguments document: json|yaml|toml" enum:"json,yaml,toml" default:"json"`
	Arg     map[string]string `short:"a" help:"Sets an argument, as key=value. JSON values are set as is, other values as strings"`
	Verbose bool              `short:"v" help:"Print the tool events and the run transcript to stderr"`
}

// Run invokes the tool and prints the result to stdout
func (c *callCmd) Run(ctx *Context) error {
	app.ConfigureLogging(ctx.Config().Log, ctx.Stderr)

	var opts []app.Option
	pad := callbacks.NewScratchpad(callbacks.ModeVerbose)
	if c.Verbose {
		opts = append(opts,
			app.WithCallback(callbacks.NewPrinter(ctx.Stderr, callbacks.ModeVerbose)),
			app.WithCallback(pad),
		)
	}

	tool, ok := tools.Find(c.Tool, app.New(ctx.Config(), opts...).Tools()...)
	if !ok {
		return errors.Newf("unknown tool: %s", c.Tool)
	}

	input, err := c.arguments()
	if err != nil {
		return err
	}

	if c.Verbose {
		pad.StartRun()
	}
	res, err := tool.Call(ctx, input)
	if err != nil {
		return err
	}
	if stats, transcript := pad.EndRun(); stats != nil {
		fmt.Fprintf(ctx.Stderr, "%s\nDuration: %s, Calls: %d, Failed: %d\n",
			transcript, stats.Duration, stats.ToolsCalls, stats.ToolsCallsFailed)
	}

	_, err = fmt.Fprintln(ctx.Stdout, res)
	return err
}

// arguments returns the tool input as JSON
func (c *callCmd) arguments() (string, error) {
	input := values.StringsCoalesce(c.Input, "{}")
	if c.Format != encoding.FormatJSON {
		enc, err := encoding.ForFormat(c.Format)
		if err != nil {
			return "", err
		}
		var doc map[string]any
		if err = enc.Unmarshal([]byte(input), &doc); err != nil {
			return "", errors.Wrapf(err, "failed to parse %s arguments", c.Format)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return "", errors.WithStack(err)
		}
		input = string(js)
	}

	var err error
	for key, val := range c.Arg {
		if json.Valid([]byte(val)) {
			input, err = sjson.SetRaw(input, key, val)
		} else {
			input, err = sjson.Set(input, key, val)
		}
		if err != nil {
			return "", errors.Wrapf(err, "failed to set argument %s", key)
		}
	}
	return input, nil
}
