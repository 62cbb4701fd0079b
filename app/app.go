// Package app wires the configuration into the Open-Meteo client,
// the weather tools and the MCP server of each entry point.
package app

import (
	"io"

	"github.com/effective-security/weathermcp/callbacks"
	"github.com/effective-security/weathermcp/config"
	"github.com/effective-security/weathermcp/mcp"
	"github.com/effective-security/weathermcp/mcp/httptransport"
	"github.com/effective-security/weathermcp/mcp/localtransport"
	"github.com/effective-security/weathermcp/pkg/httpclient"
	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools"
	"github.com/effective-security/weathermcp/tools/weather"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
	mcpgolang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp", "app")

// App holds the tools shared by all entry points
type App struct {
	cfg       *config.Config
	api       openmeteo.API
	callbacks *callbacks.Fanout
	toolset   *weather.Toolset
}

// Option configures App
type Option func(*App)

// WithAPI replaces the Open-Meteo client
func WithAPI(api openmeteo.API) Option {
	return func(a *App) {
		a.api = api
	}
}

// WithCallback adds a tool lifecycle callback,
// the tool events are always logged
func WithCallback(cb tools.Callback) Option {
	return func(a *App) {
		a.callbacks.Add(cb)
	}
}

// New returns App
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:       cfg,
		callbacks: callbacks.NewFanout(callbacks.NewPackageLogger(logger)),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.api == nil {
		fetcher := httpclient.New(httpclient.Config{
			Timeout:   cfg.OpenMeteo.Timeout(),
			UserAgent: cfg.OpenMeteo.UserAgent,
		})
		a.api = openmeteo.New(fetcher, openmeteo.Config{
			GeocodingURL: cfg.OpenMeteo.GeocodingURL,
			ForecastURL:  cfg.OpenMeteo.ForecastURL,
			Language:     cfg.OpenMeteo.Language,
		})
	}

	a.toolset = weather.NewToolset(a.api, a.callbacks, weather.Config{
		DefaultDays: cfg.Forecast.DefaultDays,
		MaxDays:     cfg.Forecast.MaxDays,
	})
	return a
}

// Config returns the configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Tools returns the weather tools
func (a *App) Tools() []tools.ITool {
	return a.toolset.Tools()
}

// NewServer returns MCP server on the transport, not yet serving
func (a *App) NewServer(tr transport.Transport) (*mcpgolang.Server, error) {
	return mcp.NewServer(mcp.Config{
		Name:    a.cfg.Server.Name,
		Version: a.cfg.Server.Version,
	}, tr, a.toolset.MCPTools()...)
}

// NewHTTPHandler returns gin engine serving MCP over the stateless transport
func (a *App) NewHTTPHandler() (*gin.Engine, error) {
	gin.SetMode(a.cfg.HTTP.GinMode)

	tr := localtransport.New()
	server, err := a.NewServer(tr)
	if err != nil {
		return nil, err
	}
	// the local transport does not block in Start
	if err = server.Serve(); err != nil {
		return nil, err
	}
	return httptransport.NewEngine(httptransport.New(a.cfg.HTTP.Endpoint, tr)), nil
}

// ConfigureLogging sets the global log format and level,
// logs are written to w
func ConfigureLogging(cfg config.LogConfig, w io.Writer) {
	if cfg.Format == "json" {
		xlog.SetFormatter(xlog.NewJSONFormatter(w))
	} else {
		xlog.SetFormatter(xlog.NewStringFormatter(w))
	}
	xlog.SetGlobalLogLevel(cfg.LogLevel())
}
