package observability

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	runs        *CounterVec
	lectures    *CounterVec
	llmRequests *CounterVec
	storeOps    *CounterVec
}

var current atomic.Pointer[Metrics]

// Current returns the process metrics, or nil when Init was never called.
func Current() *Metrics {
	return current.Load()
}

func Init(log *logger.Logger) *Metrics {
	m := New()
	current.Store(m)
	if log != nil {
		log.Info("metrics initialized")
	}
	return m
}

// New builds an unregistered Metrics set; tests use it directly.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("http_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("http_request_duration_seconds", "HTTP request latency.", []string{"method", "route"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300}),
		apiInflight: NewGauge("http_requests_inflight", "HTTP requests currently being served."),
		runs:        NewCounterVec("notes_runs_total", "Lecture-notes runs by protocol and outcome.", []string{"protocol", "status"}),
		lectures:    NewCounterVec("notes_lectures_total", "Lectures processed by outcome.", []string{"status"}),
		llmRequests: NewCounterVec("llm_requests_total", "LLM requests by model and outcome.", []string{"model", "status"}),
		storeOps:    NewCounterVec("note_store_ops_total", "Note store operations by op and result.", []string{"op", "result"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.runs, m.lectures, m.llmRequests, m.storeOps,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) IncRun(protocol, status string) {
	if m != nil {
		m.runs.Inc(protocol, status)
	}
}

func (m *Metrics) IncLecture(status string) {
	if m != nil {
		m.lectures.Inc(status)
	}
}

func (m *Metrics) IncLLMRequest(model, status string) {
	if m != nil {
		m.llmRequests.Inc(model, status)
	}
}

func (m *Metrics) IncStoreOp(op, result string) {
	if m != nil {
		m.storeOps.Inc(op, result)
	}
}

// ---- primitives ----

type CounterVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil || len(values) != len(c.labelNames) {
		return
	}
	key := joinLabels(values)
	c.mu.Lock()
	c.values[key] += v
	c.mu.Unlock()
}

// Value is used by tests.
func (c *CounterVec) Value(values ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[joinLabels(values)]
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", c.name, c.help, c.name); err != nil {
		return err
	}
	for _, key := range sortedKeys(c.values) {
		if _, err := fmt.Fprintf(w, "%s{%s} %s\n", c.name, formatLabels(c.labelNames, splitLabels(key)), formatFloat(c.values[key])); err != nil {
			return err
		}
	}
	return nil
}

type Gauge struct {
	name string
	help string
	mu   sync.RWMutex
	val  float64
}

func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help}
}

func (g *Gauge) Inc() { g.add(1) }
func (g *Gauge) Dec() { g.add(-1) }

func (g *Gauge) add(v float64) {
	g.mu.Lock()
	g.val += v
	g.mu.Unlock()
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %s\n", g.name, g.help, g.name, g.name, formatFloat(g.val))
	return err
}

type histogram struct {
	counts []uint64
	sum    float64
	count  uint64
}

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogram
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	b := append([]float64(nil), buckets...)
	sort.Float64s(b)
	return &HistogramVec{name: name, help: help, labelNames: labels, buckets: b, values: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil || len(values) != len(h.labelNames) {
		return
	}
	key := joinLabels(values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[key]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets))}
		h.values[key] = hist
	}
	for i, upper := range h.buckets {
		if v <= upper {
			hist.counts[i]++
		}
	}
	hist.sum += v
	hist.count++
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		hist := h.values[key]
		labels := formatLabels(h.labelNames, splitLabels(key))
		for i, upper := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", h.name, labels, formatFloat(upper), hist.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n%s_sum{%s} %s\n%s_count{%s} %d\n",
			h.name, labels, hist.count, h.name, labels, formatFloat(hist.sum), h.name, labels, hist.count); err != nil {
			return err
		}
	}
	return nil
}

const labelSep = "\xff"

func joinLabels(values []string) string { return strings.Join(values, labelSep) }

func splitLabels(key string) []string { return strings.Split(key, labelSep) }

func formatLabels(names, values []string) string {
	parts := make([]string, 0, len(names))
	for i, n := range names {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		parts = append(parts, fmt.Sprintf("%s=%q", n, v))
	}
	return strings.Join(parts, ",")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
