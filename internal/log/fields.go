package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldFeed       = "feed"
	FieldFiles      = "files"
	FieldRecords    = "records"
	FieldSkipped    = "skipped"
	FieldCategories = "categories"
	FieldClipped    = "clipped_days"
	FieldView       = "view"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLoader  = "loader"
	ComponentStorage = "storage"
	ComponentServer  = "server"
	ComponentExport  = "export"
	ComponentTUI     = "tui"
)
