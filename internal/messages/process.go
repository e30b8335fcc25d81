package messages

// External process and filesystem messages.
const (
	ProcessExitFmt        = "%s %s exited with status %d"
	ProcessExitOutputFmt  = "%s %s exited with status %d: %s"
	ProcessStartFailedFmt = "%s %s could not start: %v"
	ProcessCancelledFmt   = "%s %s cancelled: %w"
	ProcessPathRequired   = "executable path is required"

	FilesystemErrorFmt   = "%s %s: %v"
	FilesystemNotRegular = "not a regular file"
	FilesystemExistsFmt  = "%s already exists"
)
