package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/healthcheck", "200", 20*time.Millisecond)
	m.IncLecture("ok")
	m.IncLecture("ok")
	m.IncLecture("error")
	m.ApiInflightInc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/healthcheck",status="200"} 1`,
		`notes_lectures_total{status="ok"} 2`,
		`notes_lectures_total{status="error"} 1`,
		`http_request_duration_seconds_bucket{method="GET",route="/healthcheck",le="0.05"} 1`,
		`http_request_duration_seconds_bucket{method="GET",route="/healthcheck",le="0.01"} 0`,
		`http_requests_inflight 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCounterVecIgnoresWrongArity(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"a", "b"})
	c.Inc("only-one")
	c.Inc("1", "2")
	if got := c.Value("1", "2"); got != 1 {
		t.Fatalf("value: want=1 got=%v", got)
	}
	if got := c.Value("only-one"); got != 0 {
		t.Fatalf("wrong arity counted: %v", got)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.IncRun("stream", "completed")
	m.ObserveAPI("GET", "/", "200", time.Second)
	m.ApiInflightInc()
}
