package ir

// Version constants for the stored calibration format and the tool.
const (
	// FormatVersion is the schema version of persisted calibration entries.
	FormatVersion = "1"

	// ToolVersion is the pulsecal version stamped on synthesized entries.
	ToolVersion = "0.1.0"
)
