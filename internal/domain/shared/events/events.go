package events

import "time"

// DomainEvent is anything an aggregate wants published after a successful write.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Recorder collects events raised by handlers until they are handed to the outbox.
type Recorder struct {
	pending []DomainEvent
}

func (r *Recorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *Recorder) Pending() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *Recorder) Clear() {
	r.pending = nil
}

// Base carries the common event fields; concrete events embed it and add a payload.
type Base struct {
	Name      string    `json:"name"`
	Aggregate string    `json:"aggregate_id"`
	Owner     string    `json:"owner_id"`
	At        time.Time `json:"at"`
}

func NewBase(name, aggregate, owner string, at time.Time) Base {
	if at.IsZero() {
		at = time.Now()
	}
	return Base{Name: name, Aggregate: aggregate, Owner: owner, At: at.UTC()}
}

func (e Base) EventName() string     { return e.Name }
func (e Base) AggregateID() string   { return e.Aggregate }
func (e Base) OccurredAt() time.Time { return e.At }
