package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/launchsim/core/internal/telemetrydevice"
)

var noDeadline = time.Time{}

// handleTelemetryStream bridges the Telemetry Device (component C) onto
// Server-Sent Events: one reader goroutine per client, each record
// becoming one SSE "data:" frame.
//
// Grounded on ChrisB0-2-StarGo's internal/stream/sse.go (flusher check,
// SSE headers, ResponseController write-deadline clear, per-connection
// read loop selecting on ctx.Done()).
func (s *Server) handleTelemetryStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}
	if s.device == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "telemetry device not wired")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "streaming not supported")
		return
	}

	reader, err := s.device.Open()
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(noDeadline)

	ctx := r.Context()
	var buf bytes.Buffer
	chunk := make([]byte, 512)

	for {
		n, err := reader.Read(ctx, chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if !flushLines(w, flusher, &buf) {
				return
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, telemetrydevice.ErrDeviceClosed()) {
				return
			}
			if ctx.Err() != nil {
				return
			}
			return
		}
	}
}

// flushLines writes each complete ('\n'-terminated) record in buf as one
// SSE data frame and returns false if the write fails (client gone).
func flushLines(w http.ResponseWriter, flusher http.Flusher, buf *bytes.Buffer) bool {
	flushed := false
	for {
		data := buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := data[:idx]
		if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
			return false
		}
		buf.Next(idx + 1)
		flushed = true
	}
	if flushed {
		flusher.Flush()
	}
	return true
}
