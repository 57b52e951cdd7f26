// Package outbox relays stored domain events to a message broker as
// CloudEvents.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Message is one stored event as seen by the relay.
type Message struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	OccurredAt time.Time
	Headers    map[string]string
	Attempts   int
}

// Store hands out events one at a time. Claim returns nil when nothing is due.
type Store interface {
	Claim(ctx context.Context, workerID string) (*Message, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

type Worker struct {
	Store       Store
	Publisher   Publisher
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
	Logger      *slog.Logger
}

// Run polls until ctx is cancelled, draining every due event per tick.
func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Publisher == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && w.Logger != nil {
				w.Logger.Error("outbox drain failed", "worker", w.ID, "error", err)
			}
		}
	}
}

// Drain publishes due events until the store is empty and reports how many
// were delivered. Publish failures are rescheduled, not returned.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	if w.Store == nil || w.Publisher == nil {
		return 0, ErrWorkerNotConfigured
	}
	sent := 0
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		msg, err := w.Store.Claim(ctx, w.ID)
		if err != nil {
			return sent, err
		}
		if msg == nil {
			return sent, nil
		}
		if err := w.deliver(ctx, msg); err != nil {
			next := w.nextRetry(msg.Attempts)
			if w.Logger != nil {
				w.Logger.Warn("outbox publish failed", "event_id", msg.ID, "event", msg.Name, "attempts", msg.Attempts+1, "retry_at", next, "error", err)
			}
			if markErr := w.Store.MarkFailed(ctx, msg.ID, next, err.Error()); markErr != nil {
				return sent, markErr
			}
			continue
		}
		if err := w.Store.MarkSent(ctx, msg.ID); err != nil {
			return sent, err
		}
		sent++
	}
}

func (w *Worker) deliver(ctx context.Context, msg *Message) error {
	payload, headers, err := w.Envelope(msg)
	if err != nil {
		return err
	}
	return w.Publisher.Publish(ctx, w.TopicFor(msg.Name), msg.Aggregate, payload, headers)
}

// Envelope wraps the stored payload in a structured-mode CloudEvent.
func (w *Worker) Envelope(msg *Message) ([]byte, map[string]string, error) {
	var data json.RawMessage = msg.Payload
	if !json.Valid(data) {
		return nil, nil, errors.New("outbox: payload is not valid JSON")
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              msg.ID,
		"type":            msg.Name + ".v1",
		"source":          w.source(),
		"subject":         msg.Aggregate,
		"time":            msg.OccurredAt.UTC().Format(time.RFC3339Nano),
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := msg.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

// TopicFor maps "reservation.created" to "<prefix>reservation.events.v1".
func (w *Worker) TopicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return w.TopicPrefix + base + ".events.v1"
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

// nextRetry never returns a time in the past so one Drain cannot spin on a
// failing event.
func (w *Worker) nextRetry(attempts int) time.Time {
	delay := 5 * time.Second
	switch {
	case attempts < len(w.Backoff):
		delay = w.Backoff[attempts]
	case len(w.Backoff) > 0:
		delay = w.Backoff[len(w.Backoff)-1]
	}
	if delay < time.Second {
		delay = time.Second
	}
	return time.Now().Add(delay)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://staycal"
}
