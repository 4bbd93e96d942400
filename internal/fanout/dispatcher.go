// Package fanout performs the best-effort persistence and indexing that runs
// after a conversational turn has been returned to the client. Each dispatch
// is a single attempt: failures are logged and dropped, never retried and
// never surfaced to the session that triggered them.
package fanout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vectorchat/internal/embedding"
	"vectorchat/internal/model"
	"vectorchat/internal/store"
)

// metadataContentLimit bounds the content prefix carried in vector metadata.
const metadataContentLimit = 500

// Dispatcher schedules the dual write for completed turns. In-flight
// dispatches are tracked so the process can drain them before exiting.
type Dispatcher struct {
	records  store.RecordStore
	index    store.VectorIndex
	embedder *embedding.Embedder
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher wires the dispatcher to its targets. Either store may be nil,
// in which case that write is skipped.
func NewDispatcher(records store.RecordStore, index store.VectorIndex, embedder *embedding.Embedder, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		records:  records,
		index:    index,
		embedder: embedder,
		timeout:  timeout,
	}
}

// Record schedules persistence of one (user, assistant) pair. It returns
// immediately; the writes run on a tracked goroutine with their own deadline,
// detached from the request that produced the turn.
func (d *Dispatcher) Record(sessionID string, userMessage, assistantMessage model.Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.persistAndIndex(ctx, sessionID, userMessage, assistantMessage)
	}()
}

// Drain blocks until all scheduled dispatches have finished or ctx expires.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persistAndIndex performs the two independent writes. A failure of one must
// not prevent the attempt of the other.
func (d *Dispatcher) persistAndIndex(ctx context.Context, sessionID string, userMessage, assistantMessage model.Message) {
	if d.records != nil {
		turn := model.Turn{UserMessage: userMessage, AssistantMessage: assistantMessage}
		if err := d.records.PutTurn(ctx, sessionID, turn); err != nil {
			slog.Error("Failed to persist turn record", "session_id", sessionID, "user_message_id", userMessage.ID, "error", err)
		}
	}

	if d.index != nil && d.embedder != nil {
		var records []store.VectorRecord
		for _, msg := range []model.Message{userMessage, assistantMessage} {
			if msg.Content == "" {
				continue
			}
			records = append(records, store.VectorRecord{
				ID:     msg.ID,
				Values: d.embedder.Embed(msg.Content),
				Metadata: store.VectorMetadata{
					SessionID: sessionID,
					Role:      msg.Role,
					Content:   truncate(msg.Content, metadataContentLimit),
					Timestamp: msg.Timestamp,
				},
			})
		}
		if len(records) > 0 {
			if err := d.index.Insert(ctx, records); err != nil {
				slog.Error("Failed to index turn messages", "session_id", sessionID, "user_message_id", userMessage.ID, "error", err)
			}
		}
	}
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
