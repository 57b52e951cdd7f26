package middleware

import (
	"context"
	"fmt"

	"staycal/internal/app/bus"
	"staycal/internal/app/outbox"
)

// OutboxFlush publishes the events a command recorded, but only after the
// command succeeded. A flush failure is reported against the command key.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next bus.CommandBus) bus.CommandBus {
		return bus.CommandFunc(func(ctx context.Context, cmd bus.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, fmt.Errorf("flush events of %s: %w", cmd.Key(), err)
			}
			return res, nil
		})
	}
}
