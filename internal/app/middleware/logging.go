package middleware

import (
	"context"
	"log/slog"
	"time"

	"staycal/internal/app/bus"
)

func CommandLogging(logger *slog.Logger) CommandMiddleware {
	return func(next bus.CommandBus) bus.CommandBus {
		if logger == nil {
			return next
		}
		return bus.CommandFunc(func(ctx context.Context, cmd bus.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logMessage(ctx, logger, "command", cmd.Key(), start, err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	return func(next bus.QueryBus) bus.QueryBus {
		if logger == nil {
			return next
		}
		return bus.QueryFunc(func(ctx context.Context, q bus.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logMessage(ctx, logger, "query", q.Key(), start, err)
			return res, err
		})
	}
}

func logMessage(ctx context.Context, logger *slog.Logger, kind, key string, start time.Time, err error) {
	attrs := []any{"kind", kind, "key", key, "duration", time.Since(start)}
	if err != nil {
		logger.WarnContext(ctx, "bus message failed", append(attrs, "error", err)...)
		return
	}
	logger.DebugContext(ctx, "bus message handled", attrs...)
}
