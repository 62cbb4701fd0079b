package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsToolCallsSucceeded is base for counter metric for tool calls
	// that produced upstream data
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	// StatsToolCallsEmpty counts calls answered with a not-found or unavailable message
	StatsToolCallsEmpty = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_empty",
		Help:         "stats_tool_calls_empty provides total tool calls with no upstream data",
		RequiredTags: []string{"tool"},
	}

	StatsUpstreamErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_errors",
		Help:         "stats_upstream_errors provides total failed upstream HTTP calls",
		RequiredTags: []string{"host", "kind"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfUpstreamCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_upstream_call",
		Help:         "perf_upstream_call provides duration of upstream HTTP call",
		RequiredTags: []string{"host"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&PerfUpstreamCall,
	&StatsToolCallsEmpty,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
	&StatsUpstreamErrors,
}
