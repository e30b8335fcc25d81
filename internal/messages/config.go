package messages

// Configuration file messages.
const (
	ConfigReadFailedFmt     = "read config %s: %w"
	ConfigInvalidFmt        = "invalid config %s: %w"
	ConfigValidateFailedFmt = "config %s: %s"
	ConfigFieldInvalidFmt   = "%s failed %q validation"
	ConfigSearchFailedFmt   = "search for config: %w"
	ConfigGetwdFailedFmt    = "resolve working directory: %w"
	ConfigValidationFailed  = "config validation failed"
)
