package observability

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/simple-explain/internal/platform/logger"
)

type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	llmRequests   *CounterVec
	llmLatency    *HistogramVec
	llmTokens     *CounterVec
	generations   *CounterVec
	historyWrites *CounterVec
}

var (
	initMu   sync.Mutex
	instance *Metrics
)

// Current returns the process metrics, or nil when metrics are disabled.
// Every method is safe on a nil receiver.
func Current() *Metrics {
	initMu.Lock()
	defer initMu.Unlock()
	return instance
}

// Init installs the process metrics. It returns nil when disabled.
func Init(log *logger.Logger, enabled bool) *Metrics {
	initMu.Lock()
	defer initMu.Unlock()
	if !enabled {
		instance = nil
		return nil
	}
	if instance != nil {
		return instance
	}
	instance = New()
	if log != nil {
		log.Info("Metrics enabled")
	}
	return instance
}

// New builds an unregistered Metrics set.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("se_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"se_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("se_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("se_llm_requests_total", "LLM requests by model/endpoint/status.", []string{"model", "endpoint", "status"}),
		llmLatency: NewHistogramVec(
			"se_llm_request_duration_seconds",
			"LLM request latency in seconds by model/endpoint/status.",
			[]string{"model", "endpoint", "status"},
			[]float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		),
		llmTokens:     NewCounterVec("se_llm_tokens_total", "LLM tokens by model/kind.", []string{"model", "kind"}),
		generations:   NewCounterVec("se_generations_total", "Explanation generations by variant/lang/outcome.", []string{"variant", "lang", "outcome"}),
		historyWrites: NewCounterVec("se_history_writes_total", "Recent-history writes by outcome.", []string{"outcome"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.generations, m.historyWrites,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = strings.TrimSpace(model)
	endpoint = strings.TrimSpace(endpoint)
	m.llmRequests.Inc(model, endpoint, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model, endpoint, status)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), model, "output")
	}
}

// IncGeneration counts one finished generation. outcome is "ok",
// "invalid_response", "failed" or "canceled".
func (m *Metrics) IncGeneration(variant, lang, outcome string) {
	if m == nil {
		return
	}
	m.generations.Inc(variant, lang, outcome)
}

func (m *Metrics) IncHistoryWrite(outcome string) {
	if m == nil {
		return
	}
	m.historyWrites.Inc(outcome)
}

// GenerationCount is the current value of one generation series.
func (m *Metrics) GenerationCount(variant, lang, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.generations.Value(variant, lang, outcome)
}
