package mcp

import (
	"context"
	"encoding/json"

	"github.com/effective-security/xlog"
	"github.com/metoro-io/mcp-golang/transport"
)

const (
	// MethodCallTool is the JSON-RPC method of a tool invocation
	MethodCallTool = "tools/call"
	// CodeInvalidParams is the JSON-RPC error code for an unknown tool
	CodeInvalidParams = -32602
)

// toolGuard answers tools/call requests for unregistered tools
// with a JSON-RPC error, the server would otherwise reply with a null result.
type toolGuard struct {
	transport.Transport
	names map[string]bool
}

func newToolGuard(tr transport.Transport, names []string) *toolGuard {
	g := &toolGuard{
		Transport: tr,
		names:     make(map[string]bool, len(names)),
	}
	for _, name := range names {
		g.names[name] = true
	}
	return g
}

// SetMessageHandler implements Transport.SetMessageHandler.
func (g *toolGuard) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	g.Transport.SetMessageHandler(func(ctx context.Context, message *transport.BaseJsonRpcMessage) {
		if name, ok := g.unknownTool(message); ok {
			req := message.JsonRpcRequest
			logger.ContextKV(ctx, xlog.NOTICE,
				"reason", "unknown_tool",
				"tool", name,
			)
			err := g.Transport.Send(ctx, transport.NewBaseMessageError(&transport.BaseJSONRPCError{
				Jsonrpc: "2.0",
				Id:      req.Id,
				Error: transport.BaseJSONRPCErrorInner{
					Code:    CodeInvalidParams,
					Message: "unknown tool: " + name,
				},
			}))
			if err != nil {
				logger.ContextKV(ctx, xlog.ERROR,
					"reason", "send",
					"err", err.Error(),
				)
			}
			return
		}
		handler(ctx, message)
	})
}

// unknownTool returns the requested name if the message calls a tool
// that is not registered.
func (g *toolGuard) unknownTool(message *transport.BaseJsonRpcMessage) (string, bool) {
	if message == nil ||
		message.Type != transport.BaseMessageTypeJSONRPCRequestType ||
		message.JsonRpcRequest == nil ||
		message.JsonRpcRequest.Method != MethodCallTool {
		return "", false
	}

	var params struct {
		Name string `json:"name"`
	}
	// malformed params are left to the server
	if err := json.Unmarshal(message.JsonRpcRequest.Params, &params); err != nil {
		return "", false
	}
	if g.names[params.Name] {
		return "", false
	}
	return params.Name, true
}
