package constants

// HTTP and API constants
const (
	// Content types
	ContentTypeJSON = "application/json"

	// HTTP Headers
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"

	// Response Keys
	ResponseData    = "data"
	ResponseError   = "error"
	ResponseSuccess = "success"
	ResponseMessage = "message"
	ResponseCode    = "code"
)

// Query parameter constants
const (
	ParamProcess  = "process"
	ParamTab      = "tab"
	ParamMode     = "mode"
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamFilter   = "filter"
)

// Path parameter constants
const (
	PathRecordID    = "id"
	PathProcessType = "type"
)

// Context Keys
const (
	ContextKeyRequestID = "request_id"
)
