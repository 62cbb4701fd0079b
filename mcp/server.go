// Package mcp builds the MCP server advertising the weather tools.
// The same server is used by the stdio, HTTP and serverless entry points,
// only the transport differs.
package mcp

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp", "mcp")

const (
	// DefaultName is advertised in the initialize response
	DefaultName = "WeatherServer"
	// DefaultVersion is advertised when the version is not configured
	DefaultVersion = "0.1.0"
)

// Config of the server identity
type Config struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// NewServer returns a server on the transport with the tools registered.
// The tools are registered before Serve, so no list_changed
// notifications are emitted. A call to an unregistered tool is answered
// with the CodeInvalidParams error.
func NewServer(cfg Config, tr transport.Transport, list ...tools.IMCPTool) (*mcp.Server, error) {
	if tr == nil {
		return nil, errors.New("transport is required")
	}
	name := values.StringsCoalesce(cfg.Name, DefaultName)
	version := values.StringsCoalesce(cfg.Version, DefaultVersion)

	names := make([]string, 0, len(list))
	for _, tool := range list {
		names = append(names, tool.Name())
	}

	server := mcp.NewServer(newToolGuard(tr, names),
		mcp.WithName(name),
		mcp.WithVersion(version),
	)
	if err := tools.RegisterMCP(server, list...); err != nil {
		return nil, err
	}

	logger.KV(xlog.INFO,
		"status", "created",
		"name", name,
		"version", version,
		"tools", len(list),
	)
	return server, nil
}
