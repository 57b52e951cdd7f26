package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"staycal/internal/domain/shared/events"
)

// EventRecord is the serialized form of a domain event awaiting publication.
type EventRecord struct {
	ID         string            `json:"id" bson:"_id"`
	Name       string            `json:"name" bson:"name"`
	Aggregate  string            `json:"aggregate" bson:"aggregate"`
	Payload    []byte            `json:"payload" bson:"payload"`
	OccurredAt time.Time         `json:"occurred_at" bson:"occurred_at"`
	Headers    map[string]string `json:"headers,omitempty" bson:"headers,omitempty"`
}

// Outbox buffers records during a command. Flush makes them visible to the
// relay worker.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

func Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:         uuid.NewString(),
		Name:       ev.EventName(),
		Aggregate:  ev.AggregateID(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Headers:    map[string]string{},
	}, nil
}

// Record encodes and stores each event. A nil outbox drops them.
func Record(ctx context.Context, box Outbox, evs ...events.DomainEvent) error {
	if box == nil {
		return nil
	}
	for _, ev := range evs {
		rec, err := Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
