package middleware

import (
	"staycal/internal/app/bus"
)

// CommandMiddleware decorates a command bus.
type CommandMiddleware func(next bus.CommandBus) bus.CommandBus

type QueryMiddleware func(next bus.QueryBus) bus.QueryBus

// Commands wraps base so that mws[0] runs first.
func Commands(base bus.CommandBus, mws ...CommandMiddleware) bus.CommandBus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

func Queries(base bus.QueryBus, mws ...QueryMiddleware) bus.QueryBus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
