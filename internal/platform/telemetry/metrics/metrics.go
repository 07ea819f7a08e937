package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "ga4_admin_mcp"

// Outcome labels a finished tool call.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Registry owns the tool call collectors.
type Registry struct {
	reg      *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRegistry creates a registry with tool call collectors plus the standard
// Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls handled, by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency in seconds, by tool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// ObserveToolCall records one finished tool call. A nil registry is a no-op.
func (r *Registry) ObserveToolCall(tool string, outcome Outcome, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(tool, string(outcome)).Inc()
	r.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ToolCalls returns the counter for a tool and outcome. It is the read side
// of the registry for tests; production reads go through Handler.
func (r *Registry) ToolCalls(tool string, outcome Outcome) prometheus.Counter {
	return r.calls.WithLabelValues(tool, string(outcome))
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
