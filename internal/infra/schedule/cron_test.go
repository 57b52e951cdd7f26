package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/app/bus"
)

type tick struct{}

func (tick) Key() string { return "test.tick" }

func TestRunNowDispatchesThroughBus(t *testing.T) {
	var calls atomic.Int32
	commands := bus.NewCommands()
	require.NoError(t, bus.HandleCommand[tick, struct{}](commands, bus.HandlerFunc[tick, struct{}](func(context.Context, tick) (struct{}, error) {
		calls.Add(1)
		return struct{}{}, nil
	})))

	r := NewRunner(commands, nil)
	r.RunNow(context.Background(), Job{Name: "tick", Spec: "@every 1h", Command: tick{}})
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunSwallowsHandlerErrors(t *testing.T) {
	commands := bus.NewCommands()
	require.NoError(t, bus.HandleCommand[tick, struct{}](commands, bus.HandlerFunc[tick, struct{}](func(context.Context, tick) (struct{}, error) {
		return struct{}{}, errors.New("boom")
	})))
	assert.NotPanics(t, func() {
		NewRunner(commands, nil).RunNow(context.Background(), Job{Name: "tick", Command: tick{}})
	})
}

func TestAddValidatesJob(t *testing.T) {
	r := NewRunner(bus.NewCommands(), nil)
	ctx := context.Background()
	assert.Error(t, r.Add(ctx, Job{Name: "bad", Spec: "not a spec", Command: tick{}}))
	assert.Error(t, r.Add(ctx, Job{Name: "empty", Spec: "@hourly"}))
	assert.NoError(t, r.Add(ctx, Job{Name: "ok", Spec: "@every 30m", Command: tick{}}))
}
