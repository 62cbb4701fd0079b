package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/effective-security/weathermcp/tools"
)

// TimeNowFn is used to timestamp the scratchpad lines
var TimeNowFn = time.Now

// RunStats of the tool calls recorded by a Scratchpad run
type RunStats struct {
	Duration            time.Duration
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsFailed    uint32
	BytesIn             uint64
	BytesOut            uint64
}

// Scratchpad records a transcript and stats of the tool calls
// between StartRun and EndRun.
type Scratchpad struct {
	mode Mode

	lock    sync.Mutex
	started time.Time
	stats   RunStats
	w       bytes.Buffer
	running bool
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{mode: mode}
}

// StartRun resets the scratchpad and starts recording
func (l *Scratchpad) StartRun() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.started = TimeNowFn()
	l.stats = RunStats{}
	l.w.Reset()
	l.running = true
	l.print("*** Run Started ***")
}

// EndRun stops recording and returns the stats and the transcript.
// It returns nil if the run was not started.
func (l *Scratchpad) EndRun() (*RunStats, []byte) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.running {
		return nil, nil
	}
	l.running = false

	stats := l.stats
	stats.Duration = TimeNowFn().Sub(l.started)
	l.print(fmt.Sprintf("Tool calls: %d, Succeeded: %d, Failed: %d, Bytes In: %d, Bytes Out: %d",
		stats.ToolsCalls,
		stats.ToolsCallsSucceeded,
		stats.ToolsCallsFailed,
		stats.BytesIn,
		stats.BytesOut,
	))
	l.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	transcript := bytes.Clone(l.w.Bytes())
	return &stats, transcript
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.running {
		return
	}
	l.stats.ToolsCalls++
	l.stats.BytesIn += uint64(len(input))
	l.print(tool.Name(), "*** Tool Start ***", tools.CallID(ctx))
	l.print(tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.running {
		return
	}
	l.stats.ToolsCallsSucceeded++
	l.stats.BytesOut += uint64(len(output))
	if l.mode == ModeVerbose {
		l.print(tool.Name(), "Output:", output)
	}
	l.print(tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.running {
		return
	}
	l.stats.ToolsCallsFailed++
	l.print(tool.Name(), "*** Error ***", err.Error())
}

// print must be called with the lock held
func (l *Scratchpad) print(vals ...string) {
	fmt.Fprintf(&l.w, "[%s] %s\n", TimeNowFn().UTC().Format(time.RFC3339), strings.Join(vals, " "))
}
