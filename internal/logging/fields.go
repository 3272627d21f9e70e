package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
	// FieldTier is the standardized structured logging key for classification tier names.
	FieldTier = "tier"
	// FieldBatch is the standardized structured logging key for 1-based batch numbers.
	FieldBatch = "batch"
	// FieldWord is the standardized structured logging key for the word under classification.
	FieldWord = "word"
	// FieldEventType is the standardized structured logging key for event categories.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step when a warning or error is logged.
	FieldErrorHint = "error_hint"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
