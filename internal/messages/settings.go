package messages

// Settings file and operator settings messages.
const (
	PropertiesLineErrorFmt        = "line %d: %w"
	PropertiesExpectedKeyValue    = "expected key=value"
	PropertiesReadFailedFmt       = "read properties: %w"
	SettingsReadFileFmt           = "read settings file %s: %w"
	SettingsParseFileFmt          = "parse settings file %s: %w"
	SettingsWriteFileFmt          = "write settings file %s: %w"
	SettingsAppendFileFmt         = "append settings file %s: %w"
	SettingsStoreRequired         = "settings assembler requires a configuration store"
	SettingsWaitRequiredFailedFmt = "wait for required settings: %w"
	SettingsWaitFinalFailedFmt    = "wait for final settings: %w"
	SettingsMissingRequiredFmt    = "settings were finalized without required setting %q"
)
