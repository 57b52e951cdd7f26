package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staycal/internal/app/outbox"
	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/daterange"
	"staycal/internal/infra/outbox"
	"staycal/internal/infra/storage/memory"
)

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakePublisher struct {
	mu   sync.Mutex
	fail error
	got  []published
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.got = append(p.got, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func stage(t *testing.T, box *memory.Outbox) {
	t.Helper()
	r := reservations.Reservation{
		ID: "r1", PropertyID: "p1", OwnerID: "u1",
		Date: daterange.MustParse("2024-03-10"), Status: reservations.StatusConfirmed,
	}
	ctx := context.Background()
	require.NoError(t, appoutbox.Record(ctx, box, reservations.CreatedEvent(r, time.Now())))
}

func TestDrainPublishesOnlyFlushedEvents(t *testing.T) {
	ctx := context.Background()
	box := memory.NewOutbox()
	pub := &fakePublisher{}
	w := &outbox.Worker{Store: box, Publisher: pub, TopicPrefix: "test.", ID: "w1"}

	stage(t, box)
	sent, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent, "staged events stay invisible until flush")

	require.NoError(t, box.Flush(ctx))
	sent, err = w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Zero(t, box.Pending())

	require.Len(t, pub.got, 1)
	msg := pub.got[0]
	assert.Equal(t, "test.reservation.events.v1", msg.topic)
	assert.Equal(t, "r1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "reservation.created.v1", evt["type"])
	data, ok := evt["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", data["property_id"])
}

func TestDrainReschedulesFailures(t *testing.T) {
	ctx := context.Background()
	box := memory.NewOutbox()
	pub := &fakePublisher{fail: errors.New("broker down")}
	w := &outbox.Worker{Store: box, Publisher: pub, Backoff: []time.Duration{time.Hour}}

	stage(t, box)
	require.NoError(t, box.Flush(ctx))

	sent, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 1, box.Pending(), "failed event is kept for retry")

	msg, err := box.Claim(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, msg, "retry is not due yet")
}

func TestTopicFor(t *testing.T) {
	w := &outbox.Worker{}
	assert.Equal(t, "property.events.v1", w.TopicFor("property.deleted"))
	assert.Equal(t, "solo.events.v1", w.TopicFor("solo"))
}

func TestDrainRequiresDependencies(t *testing.T) {
	_, err := (&outbox.Worker{}).Drain(context.Background())
	assert.ErrorIs(t, err, outbox.ErrWorkerNotConfigured)
}
