package values

type contextKey string

const ContextTracingKey contextKey = "tracing"

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

// Response statuses. util.StatusCode maps each one to an HTTP status code.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	BadRequestBody = "bad-request-body"
	NotFound       = "not-found"
)
