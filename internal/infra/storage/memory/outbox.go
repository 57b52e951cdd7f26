package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "staycal/internal/app/outbox"
	infraoutbox "staycal/internal/infra/outbox"
)

type outboxState int

const (
	outboxReady outboxState = iota
	outboxClaimed
	outboxFailed
)

type outboxEntry struct {
	msg   infraoutbox.Message
	state outboxState
	next  time.Time
	owner string
	err   string
}

// Outbox stages events added during a command and exposes them to the
// relay only after Flush. Sent events are forgotten.
type Outbox struct {
	mu      sync.Mutex
	staged  []appoutbox.EventRecord
	entries []*outboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, rec := range o.staged {
		o.entries = append(o.entries, &outboxEntry{
			msg: infraoutbox.Message{
				ID:         rec.ID,
				Name:       rec.Name,
				Aggregate:  rec.Aggregate,
				Payload:    rec.Payload,
				OccurredAt: rec.OccurredAt,
				Headers:    rec.Headers,
			},
			state: outboxReady,
			next:  now,
		})
	}
	o.staged = nil
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, e := range o.entries {
		if e.state == outboxClaimed || e.next.After(now) {
			continue
		}
		e.state = outboxClaimed
		e.owner = workerID
		msg := e.msg
		return &msg, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, e := range o.entries {
		if e.msg.ID == id {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.entries {
		if e.msg.ID == id {
			e.state = outboxFailed
			e.next = next
			e.err = errMsg
			e.owner = ""
			e.msg.Attempts++
			return nil
		}
	}
	return nil
}

// Pending counts flushed events not yet delivered.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
var _ infraoutbox.Store = (*Outbox)(nil)
