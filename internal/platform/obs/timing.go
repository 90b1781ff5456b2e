package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of the named operation when the returned func runs,
// tagging it with the request id carried in ctx (if any).
//
//	defer obs.Time(ctx, "shops.list")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start).Milliseconds()

		if errp != nil && *errp != nil {
			log.Printf("op=%s req_id=%s dur=%dms err=%v", name, reqID, dur, *errp)
			return
		}
		log.Printf("op=%s req_id=%s dur=%dms", name, reqID, dur)
	}
}
