package localtransport

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/metoro-io/mcp-golang/transport"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/weathermcp/mcp", "localtransport")

// ErrInvalidMessage is returned when the body is not a JSON-RPC message
var ErrInvalidMessage = errors.New("invalid JSON-RPC message")

// Base correlates the server responses with the requests handled
// by HandleMessage. Each request is given a unique internal ID
// which is replaced back by the caller's ID in the response.
type Base struct {
	messageHandler func(ctx context.Context, message *transport.BaseJsonRpcMessage)
	errorHandler   func(error)
	closeHandler   func()
	mu             sync.RWMutex
	responseMap    map[int64]chan *transport.BaseJsonRpcMessage
	atomicCounter  int64
}

func NewBase() *Base {
	return &Base{
		responseMap: make(map[int64]chan *transport.BaseJsonRpcMessage),
	}
}

// Send implements Transport.Send.
// Only responses and errors are delivered, server initiated
// notifications have no recipient in a stateless exchange and are dropped.
func (t *Base) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	if message == nil {
		return errors.New("nil message")
	}

	var key transport.RequestId
	switch message.Type {
	case transport.BaseMessageTypeJSONRPCResponseType:
		key = message.JsonRpcResponse.Id
	case transport.BaseMessageTypeJSONRPCErrorType:
		key = message.JsonRpcError.Id
	default:
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "dropped",
			"type", message.Type,
		)
		return nil
	}

	t.mu.RLock()
	responseChannel := t.responseMap[int64(key)]
	t.mu.RUnlock()

	if responseChannel == nil {
		return errors.Errorf("no response channel found for key: %d", key)
	}

	// the channel has capacity for exactly one response
	select {
	case responseChannel <- message:
		return nil
	default:
		return errors.Errorf("response already sent for key: %d", key)
	}
}

// Close implements Transport.Close
func (t *Base) Close() error {
	t.mu.RLock()
	handler := t.closeHandler
	t.mu.RUnlock()

	if handler != nil {
		handler()
	}
	return nil
}

// SetCloseHandler implements Transport.SetCloseHandler
func (t *Base) SetCloseHandler(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeHandler = handler
}

// SetErrorHandler implements Transport.SetErrorHandler
func (t *Base) SetErrorHandler(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorHandler = handler
}

// SetMessageHandler implements Transport.SetMessageHandler
func (t *Base) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messageHandler = handler
}

func (t *Base) handler() func(ctx context.Context, message *transport.BaseJsonRpcMessage) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.messageHandler
}

func (t *Base) reportError(err error) {
	t.mu.RLock()
	handler := t.errorHandler
	t.mu.RUnlock()
	if handler != nil {
		handler(err)
	}
}

// HandleMessage dispatches one JSON-RPC message to the server.
// For a request it blocks until the response is sent, or ctx is done.
// For notifications, responses and errors it returns nil message.
func (t *Base) HandleMessage(ctx context.Context, body []byte) (*transport.BaseJsonRpcMessage, error) {
	handler := t.handler()
	if handler == nil {
		return nil, errors.New("message handler is not set")
	}

	var request transport.BaseJSONRPCRequest
	if err := json.Unmarshal(body, &request); err == nil {
		return t.handleRequest(ctx, handler, &request)
	}

	var notification transport.BaseJSONRPCNotification
	if err := json.Unmarshal(body, &notification); err == nil {
		handler(ctx, transport.NewBaseMessageNotification(&notification))
		return nil, nil
	}

	var response transport.BaseJSONRPCResponse
	if err := json.Unmarshal(body, &response); err == nil {
		handler(ctx, transport.NewBaseMessageResponse(&response))
		return nil, nil
	}

	var errorResponse transport.BaseJSONRPCError
	if err := json.Unmarshal(body, &errorResponse); err == nil {
		handler(ctx, transport.NewBaseMessageError(&errorResponse))
		return nil, nil
	}

	t.reportError(ErrInvalidMessage)
	return nil, errors.WithStack(ErrInvalidMessage)
}

func (t *Base) handleRequest(
	ctx context.Context,
	handler func(ctx context.Context, message *transport.BaseJsonRpcMessage),
	request *transport.BaseJSONRPCRequest,
) (*transport.BaseJsonRpcMessage, error) {
	key := atomic.AddInt64(&t.atomicCounter, 1)
	ch := make(chan *transport.BaseJsonRpcMessage, 1)

	t.mu.Lock()
	t.responseMap[key] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.responseMap, key)
		t.mu.Unlock()
	}()

	prevID := request.Id
	request.Id = transport.RequestId(key)

	logger.ContextKV(ctx, xlog.DEBUG,
		"method", request.Method,
		"id", prevID,
		"key", key,
	)

	handler(ctx, transport.NewBaseMessageRequest(request))

	select {
	case res := <-ch:
		switch {
		case res.JsonRpcResponse != nil:
			res.JsonRpcResponse.Id = prevID
		case res.JsonRpcError != nil:
			res.JsonRpcError.Id = prevID
		}
		return res, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "request %q cancelled", request.Method)
	}
}
