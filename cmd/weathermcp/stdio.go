package main

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/metoro-io/mcp-golang/transport"
)

// drainMargin is added to the upstream timeout when waiting
// for the responses after stdin is closed
const drainMargin = 5 * time.Second

// eofReader closes Done when the underlying reader is exhausted
type eofReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

func newEOFReader(r io.Reader) *eofReader {
	return &eofReader{r: r, done: make(chan struct{})}
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil {
		e.once.Do(func() { close(e.done) })
	}
	return n, err
}

// Done is closed on EOF or read error
func (e *eofReader) Done() <-chan struct{} {
	return e.done
}

// inflight counts the requests received on the transport
// that are not answered yet.
type inflight struct {
	transport.Transport

	lock    sync.Mutex
	pending int
	changed chan struct{}
}

func newInflight(tr transport.Transport) *inflight {
	return &inflight{
		Transport: tr,
		changed:   make(chan struct{}, 1),
	}
}

// SetMessageHandler implements Transport.SetMessageHandler.
func (t *inflight) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	t.Transport.SetMessageHandler(func(ctx context.Context, message *transport.BaseJsonRpcMessage) {
		if message != nil && message.Type == transport.BaseMessageTypeJSONRPCRequestType {
			t.add(1)
		}
		handler(ctx, message)
	})
}

// Send implements Transport.Send.
func (t *inflight) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	err := t.Transport.Send(ctx, message)
	if message != nil &&
		(message.Type == transport.BaseMessageTypeJSONRPCResponseType ||
			message.Type == transport.BaseMessageTypeJSONRPCErrorType) {
		t.add(-1)
	}
	return err
}

// Pending returns the number of unanswered requests
func (t *inflight) Pending() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.pending
}

// Wait returns true when all requests are answered,
// or false if ctx is done first.
func (t *inflight) Wait(ctx context.Context) bool {
	for {
		if t.Pending() == 0 {
			return true
		}
		select {
		case <-t.changed:
		case <-ctx.Done():
			return false
		}
	}
}

func (t *inflight) add(delta int) {
	t.lock.Lock()
	t.pending = max(t.pending+delta, 0)
	t.lock.Unlock()

	select {
	case t.changed <- struct{}{}:
	default:
	}
}
