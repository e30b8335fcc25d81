package messages

// Configuration store and operator input validation messages.
const (
	StoreInvalidInput         = "invalid input"
	StoreInvalidInputFmt      = "invalid %s %q: %s"
	StoreAlreadySetFmt        = "%s is already set to %q"
	StoreSettingsFinal        = "settings are final; no further changes are accepted"
	StoreUnknownFieldFmt      = "unknown configuration field %q"
	StoreValueRequired        = "a value is required"
	StoreDirectoryMissing     = "directory does not exist"
	StoreNotADirectory        = "not a directory"
	StoreExpandHomeFailedFmt  = "cannot expand home directory: %v"
	StoreResolvePathFailedFmt = "cannot resolve path: %v"
	StoreVersionFormat        = "must look like 1.20 or 1.20.4"
	StoreNameTooLongFmt       = "must be at most %d characters"
	StoreNamePathSeparator    = "must not contain path separators"
	StoreNameReserved         = "must not be . or .."
	StoreNameStagingFmt       = "must not be %q, the staging directory name"
	StoreSettingUnknown       = "not a recognised server setting"
	StoreSettingMultiline     = "must be a single line"
	StoreSettingInteger       = "must be a whole number"
	StoreSettingMinFmt        = "must be at least %d"
	StoreSettingRangeFmt      = "must be between %d and %d"
	StoreSettingBoolean       = "must be true or false"
)
