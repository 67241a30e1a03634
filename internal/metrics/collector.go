// Package metrics provides Prometheus metrics for the chat service:
// HTTP traffic, workflow runs and nodes, LLM usage, SMS delivery and
// session store access. Metrics register through promauto, so one
// Collector per process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector registers and records all service metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	runsTotal        *prometheus.CounterVec
	runsInFlight     prometheus.Gauge
	runDuration      *prometheus.HistogramVec
	runSteps         *prometheus.HistogramVec
	nodeExecutions   *prometheus.CounterVec
	nodeDuration     *prometheus.HistogramVec
	routeCorrections *prometheus.CounterVec

	llmRequestsTotal *prometheus.CounterVec
	llmTokensUsed    *prometheus.CounterVec

	smsSentTotal *prometheus.CounterVec

	sessionHits   *prometheus.CounterVec
	sessionMisses *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates and registers the metric set under namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_runs_total",
			Help:      "Total number of workflow runs by termination reason",
		},
		[]string{"terminated"},
	)
	c.runsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workflow_runs_in_flight",
			Help:      "Number of workflow runs currently executing",
		},
	)
	c.runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_run_duration_seconds",
			Help:      "Workflow run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"terminated"},
	)
	c.runSteps = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_run_steps",
			Help:      "Number of node invocations per run",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
		},
		[]string{"terminated"},
	)
	c.nodeExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_node_executions_total",
			Help:      "Total number of node executions",
		},
		[]string{"node", "status"},
	)
	c.nodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_node_duration_seconds",
			Help:      "Node execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"node"},
	)
	c.routeCorrections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_route_corrections_total",
			Help:      "Total number of routing decisions corrected to a declared edge",
		},
		[]string{"from"},
	)

	c.llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM requests",
		},
		[]string{"model", "operation", "status"},
	)
	c.llmTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used",
		},
		[]string{"model", "type"},
	)

	c.smsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_sent_total",
			Help:      "Total number of SMS confirmation attempts",
		},
		[]string{"status"},
	)

	c.sessionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_hits_total",
			Help:      "Total number of session store hits",
		},
		[]string{"kind"},
	)
	c.sessionMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_misses_total",
			Help:      "Total number of session store misses",
		},
		[]string{"kind"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRunStart marks a workflow run in flight.
func (c *Collector) RecordRunStart() {
	c.runsInFlight.Inc()
}

// RecordRunComplete records a finished run with its termination reason.
func (c *Collector) RecordRunComplete(terminated string, steps int, duration time.Duration) {
	c.runsInFlight.Dec()
	c.runsTotal.WithLabelValues(terminated).Inc()
	c.runDuration.WithLabelValues(terminated).Observe(duration.Seconds())
	c.runSteps.WithLabelValues(terminated).Observe(float64(steps))
}

// RecordNodeExecution records one node invocation.
func (c *Collector) RecordNodeExecution(node, status string, duration time.Duration) {
	c.nodeExecutions.WithLabelValues(node, status).Inc()
	if status == "ok" {
		c.nodeDuration.WithLabelValues(node).Observe(duration.Seconds())
	}
}

// RecordRouteCorrection records a router decision outside its edge set.
func (c *Collector) RecordRouteCorrection(from string) {
	c.routeCorrections.WithLabelValues(from).Inc()
}

// RecordLLMRequest records one generation backend call.
func (c *Collector) RecordLLMRequest(model, operation, status string, promptTokens, completionTokens int) {
	c.llmRequestsTotal.WithLabelValues(model, operation, status).Inc()
	c.llmTokensUsed.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	c.llmTokensUsed.WithLabelValues(model, "completion").Add(float64(completionTokens))
}

// RecordSMS records one SMS attempt.
func (c *Collector) RecordSMS(success bool) {
	status := "failed"
	if success {
		status = "sent"
	}
	c.smsSentTotal.WithLabelValues(status).Inc()
}

// RecordSessionHit records a session store hit for kind
// ("history" or "filters").
func (c *Collector) RecordSessionHit(kind string) {
	c.sessionHits.WithLabelValues(kind).Inc()
}

// RecordSessionMiss records a session store miss.
func (c *Collector) RecordSessionMiss(kind string) {
	c.sessionMisses.WithLabelValues(kind).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
