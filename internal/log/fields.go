package log

// Canonical field names for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Timer fields
	FieldFrom      = "from"
	FieldTo        = "to"
	FieldVia       = "via"
	FieldRemaining = "remaining"

	// Audio fields
	FieldSound      = "sound"
	FieldSessionID  = "session_id"
	FieldGeneration = "generation"
	FieldLooped     = "looped"

	FieldPath = "path"
)
