package messages

// Mod package registry and resolution messages.
const (
	ModpackNotFoundFmt    = "package %q not found (expected %s)"
	ModpackParseFailedFmt = "parse package %q (%s): %v"
	ModpackReadFailedFmt  = "read package %q (%s): %w"
	ModpackListFailedFmt  = "list packages in %s: %w"
	ModpackConfigPairFmt  = "config entry %q must be source:dest"
	ModpackConfigPathFmt  = "config entry %q must use relative paths inside the configs directory"
	ModpackLoaderRequired = "package loader is required"
)
