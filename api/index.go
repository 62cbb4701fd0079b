// Package api is the serverless entry point.
// The platform invokes Handler for every HTTP request,
// the MCP server is created once per process instance.
package api

import (
	"net/http"
	"os"
	"sync"

	"github.com/effective-security/weathermcp/app"
	"github.com/effective-security/weathermcp/config"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp", "api")

// ConfigEnv names the optional configuration file
const ConfigEnv = "WEATHERMCP_CONFIG"

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

func initHandler() {
	cfg, err := config.LoadFromEnv(ConfigEnv)
	if err != nil {
		initErr = err
		return
	}
	app.ConfigureLogging(cfg.Log, os.Stderr)
	handler, initErr = app.New(cfg).NewHTTPHandler()
}

// Handler serves MCP JSON-RPC over HTTP POST on the configured endpoint,
// and the `/ping` health check
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(initHandler)
	if initErr != nil {
		logger.ContextKV(r.Context(), xlog.ERROR, "err", initErr.Error())
		http.Error(w, "server is not configured", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}
