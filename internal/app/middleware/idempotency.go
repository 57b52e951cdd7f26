package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"staycal/internal/app/bus"
)

// IdempotentCommand carries a client supplied key. ResultPrototype returns a
// pointer the stored result is decoded into on replay.
type IdempotentCommand interface {
	bus.Command
	IdempotencyKey() string
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key        string    `json:"key" bson:"_id"`
	Command    string    `json:"command" bson:"command"`
	Payload    []byte    `json:"payload" bson:"payload"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

var (
	ErrReplayedFailure  = errors.New("middleware: command previously failed")
	errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")
)

// Idempotency replays the stored outcome when a key is seen again. Keys are
// scoped by command name.
func Idempotency(store IdempotencyStore) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	return func(next bus.CommandBus) bus.CommandBus {
		return bus.CommandFunc(func(ctx context.Context, cmd bus.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()
			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if found {
				return replay(rec, idCmd)
			}
			result, runErr := next.Dispatch(ctx, cmd)
			record := IdempotencyRecord{Key: key, Command: cmd.Key(), OccurredAt: time.Now().UTC()}
			if runErr != nil {
				record.Error = runErr.Error()
				if saveErr := store.Save(ctx, record); saveErr != nil {
					return nil, errors.Join(runErr, saveErr)
				}
				return nil, runErr
			}
			if result != nil {
				payload, err := json.Marshal(result)
				if err != nil {
					return nil, err
				}
				record.Payload = payload
			}
			if err := store.Save(ctx, record); err != nil {
				return nil, err
			}
			return result, nil
		})
	}
}

func replay(rec IdempotencyRecord, cmd IdempotentCommand) (any, error) {
	if rec.Error != "" {
		return nil, errors.Join(ErrReplayedFailure, errors.New(rec.Error))
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, proto); err != nil {
			return nil, err
		}
	}
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface(), nil
	}
	return proto, nil
}
