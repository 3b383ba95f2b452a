package tracing

import (
	"context"

	"github.com/bwise1/incident_reports/util/values"
)

// Context carries per-request identifiers used in log lines.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}

// FromContext returns the tracing context stored by the RequestTracing
// middleware, or a zero Context when none is present.
func FromContext(ctx context.Context) Context {
	tc, _ := ctx.Value(values.ContextTracingKey).(Context)
	return tc
}
