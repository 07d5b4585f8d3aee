package logger

import (
	"context"

	"github.com/ncobase/shopauth/ctxutil"
)

var traceKey = ctxutil.TraceIDKey

// getTraceID pulls the request trace ID for log entry fields.
func getTraceID(ctx context.Context) string {
	return ctxutil.GetTraceID(ctx)
}
