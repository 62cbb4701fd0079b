// Package localtransport provides a stateless MCP transport,
// where each request is handed over in process and answered synchronously.
// It backs the HTTP and serverless entry points.
package localtransport

import (
	"context"

	"github.com/metoro-io/mcp-golang/transport"
)

// Transport is the stateless server transport
type Transport struct {
	*Base
}

var _ transport.Transport = (*Transport)(nil)

func New() *Transport {
	return &Transport{
		Base: NewBase(),
	}
}

// Start implements Transport.Start, it does nothing in the stateless transport
func (s *Transport) Start(ctx context.Context) error {
	return nil
}
