package api

import (
	"log/slog"
	"net/http"
)

// streamTransport delivers raw text chunks to the client as they are
// produced. Chunks arrive from a single goroutine in production order; the
// transport's job is to write and flush each one immediately, and to go quiet
// after the first write failure so a broken connection does not flood the log.
// The underlying stream is closed exactly once, by the handler returning.
type streamTransport struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
	failed  bool
}

func newStreamTransport(w http.ResponseWriter) *streamTransport {
	flusher, _ := w.(http.Flusher)
	return &streamTransport{w: w, flusher: flusher}
}

// WriteChunk sends one fragment. Headers go out with the first chunk, so a
// request rejected before any chunk can still answer with a JSON envelope.
func (t *streamTransport) WriteChunk(chunk string) {
	if t.failed {
		return
	}
	if !t.started {
		t.started = true
		t.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		t.w.Header().Set("Cache-Control", "no-cache")
		t.w.WriteHeader(http.StatusOK)
	}
	if _, err := t.w.Write([]byte(chunk)); err != nil {
		slog.Warn("Failed to write stream chunk, client likely disconnected", "error", err)
		t.failed = true
		return
	}
	if t.flusher != nil {
		t.flusher.Flush()
	}
}

// Started reports whether any bytes have gone out on the stream.
func (t *streamTransport) Started() bool {
	return t.started
}
