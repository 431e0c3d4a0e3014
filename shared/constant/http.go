package constant

const (
	RequestParamPage       = "page"
	RequestParamLimit      = "limit"
	RequestParamSortBy     = "sort_by"
	RequestParamSortDir    = "sort_dir"
	RequestParamID         = "id"
	RequestParamRoomNumber = "roomNumber"
	RequestParamRoomType   = "type"

	RequestMaxMemory = 10 << 20
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const ContentTypeJSON = "application/json"

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)
