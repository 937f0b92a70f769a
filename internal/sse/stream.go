package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
)

const DefaultHeartbeat = 15 * time.Second

// Stream writes server-sent events to one client. Each message is a single
// `data: {json}` frame; heartbeats are comment frames.
type Stream struct {
	log       *logger.Logger
	heartbeat time.Duration
}

func NewStream(log *logger.Logger, heartbeat time.Duration) *Stream {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Stream{log: log.With("component", "SSEStream"), heartbeat: heartbeat}
}

// Serve forwards every value from msgs until msgs is closed or the request
// context ends. It returns false when streaming is unsupported.
func Serve[T any](s *Stream, w http.ResponseWriter, r *http.Request, msgs <-chan T) bool {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("SSE client context done", "err", ctx.Err())
			return true
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, open := <-msgs:
			if !open {
				return true
			}
			jsonBytes, err := json.Marshal(msg)
			if err != nil {
				s.log.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", jsonBytes)
			flusher.Flush()
		}
	}
}
