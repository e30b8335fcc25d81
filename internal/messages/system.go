package messages

// Logging and metrics messages for internal operations.
const (
	LoggingCreateDirFmt     = "create log directory: %w"
	LoggingOpenFileFmt      = "open log file: %w"
	LoggingFileUnavailable  = "Failed to create log file, logging to console only"
	LoggingInitialized      = "Logger initialized"
	MetricsWriteTextfileFmt = "write metrics to %s: %w"
)
