package outbox

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the logger instead of a broker. It is the
// default when no broker is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.Logger == nil {
		return nil
	}
	p.Logger.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload))
	return nil
}

var _ Publisher = LogPublisher{}
