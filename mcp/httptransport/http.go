// Package httptransport serves the stateless MCP transport over HTTP.
// Every POST carries one JSON-RPC message, and the response is returned
// in the HTTP response body.
package httptransport

import (
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/mcp/localtransport"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp/mcp", "httptransport")

const (
	// DefaultEndpoint is the path of the MCP endpoint
	DefaultEndpoint = "/mcp"
	// maxBodySize limits the size of the request body
	maxBodySize = 1 << 20
)

// Handler dispatches HTTP requests to the local transport
type Handler struct {
	transport *localtransport.Transport
	endpoint  string
}

// New returns Handler for the endpoint
func New(endpoint string, tr *localtransport.Transport) *Handler {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Handler{
		transport: tr,
		endpoint:  endpoint,
	}
}

// Endpoint returns the path of the MCP endpoint
func (h *Handler) Endpoint() string {
	return h.endpoint
}

// Register adds the routes to the router
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ping", handlePing)
	r.POST(h.endpoint, h.handleMessage)
}

// NewEngine returns gin engine with the recovery and logging middleware,
// and the routes of the handler.
// Methods other than POST on the endpoint are answered with 405.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(Recovery(), RequestLogger())
	h.Register(r)
	return r
}

func handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func (h *Handler) handleMessage(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read request body")
		return
	}

	res, err := h.transport.HandleMessage(ctx, body)
	if err != nil {
		if errors.Is(err, localtransport.ErrInvalidMessage) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		logger.ContextKV(ctx, xlog.ERROR,
			"endpoint", h.endpoint,
			"err", err.Error(),
		)
		c.String(http.StatusInternalServerError, "failed to handle message")
		return
	}
	if res == nil {
		// notifications have no response
		c.Status(http.StatusAccepted)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Recovery returns middleware that turns a panic into 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.ContextKV(c.Request.Context(), xlog.ERROR,
			"panic", rec,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// RequestLogger returns middleware that logs every request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		logger.ContextKV(c.Request.Context(), xlog.DEBUG,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
			"elapsed", time.Since(started).String(),
			"remote", c.ClientIP(),
		)
	}
}
