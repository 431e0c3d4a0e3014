package constant

// Span scope names. Spans are named <scope>.<component>.<operation>.
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelExternalScopeName   = "external"
	OtelEventScopeName      = "event"
	OtelWorkerScopeName     = "worker"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)
