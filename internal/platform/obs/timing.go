package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation through the context logger and
// records it on the context metrics. Use as:
//
//	defer obs.Time(ctx, "services.PriceRoute")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		metricsFrom(ctx).ObserveOp(name, dur)

		ev := zerolog.Ctx(ctx).Debug()
		if errp != nil && *errp != nil {
			ev = zerolog.Ctx(ctx).Warn().Err(*errp)
		}
		ev.Str("req_id", RequestID(ctx)).
			Str("op", name).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("op done")
	}
}
