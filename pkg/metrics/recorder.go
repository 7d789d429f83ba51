package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "krishi"

// Recorder owns the Prometheus collectors exported on /metrics.
// A nil *Recorder is valid and records nothing, which keeps unit tests free of registries.
type Recorder struct {
	registry    *prometheus.Registry
	alerts      *prometheus.CounterVec
	sms         *prometheus.CounterVec
	llmAttempts *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_evaluated_total",
			Help:      "Alert evaluations by type and outcome (triggered, clear, degraded).",
		}, []string{"type", "outcome"}),
		sms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_sent_total",
			Help:      "SMS send attempts by alert type and result.",
		}, []string{"type", "result"}),
		llmAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_attempts_total",
			Help:      "Generative provider calls by operation and result.",
		}, []string{"operation", "result"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens reported by the generative provider.",
		}, []string{"operation", "kind"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.alerts,
		r.sms,
		r.llmAttempts,
		r.llmTokens,
		r.httpLatency,
	)
	return r
}

// Registry exposes the registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// AlertEvaluated counts one evaluator outcome.
func (r *Recorder) AlertEvaluated(alertType, outcome string) {
	if r == nil {
		return
	}
	r.alerts.WithLabelValues(alertType, outcome).Inc()
}

// SMSSent counts one notifier call.
func (r *Recorder) SMSSent(alertType string, ok bool) {
	if r == nil {
		return
	}
	result := "failed"
	if ok {
		result = "sent"
	}
	r.sms.WithLabelValues(alertType, result).Inc()
}

// LLMAttempt counts one provider call.
func (r *Recorder) LLMAttempt(operation string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.llmAttempts.WithLabelValues(operation, result).Inc()
}

// LLMTokens adds provider reported usage.
func (r *Recorder) LLMTokens(operation string, usage TokenUsage) {
	if r == nil || usage.IsZero() {
		return
	}
	r.llmTokens.WithLabelValues(operation, "prompt").Add(float64(usage.PromptTokens))
	r.llmTokens.WithLabelValues(operation, "completion").Add(float64(usage.CompletionTokens))
}

// HTTPRequest observes one inbound request.
func (r *Recorder) HTTPRequest(method, path string, status int, latency time.Duration) {
	if r == nil {
		return
	}
	r.httpLatency.WithLabelValues(method, path, strconv.Itoa(status)).Observe(latency.Seconds())
}
