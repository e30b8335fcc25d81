package messages

// Server installer download and invocation messages.
const (
	InstallerRunnerRequired              = "installer requires a process runner"
	InstallerResolveCacheDirFmt          = "resolve installer cache dir: %w"
	InstallerCheckCachedFmt              = "check cached installer %s: %w"
	InstallerNotCachedFmt                = "installer is not cached (expected at %s); network access disabled via %s"
	InstallerCreateCacheDirFmt           = "create installer cache dir: %w"
	InstallerCreateTempFileFmt           = "create temp file: %w"
	InstallerSyncTempFileFmt             = "sync temp file: %w"
	InstallerCloseTempFileFmt            = "close temp file: %w"
	InstallerTruncateTempFileFmt         = "truncate temp file: %w"
	InstallerResetTempFileOffsetFmt      = "reset temp file offset: %w"
	InstallerMoveCachedFmt               = "move installer into place: %w"
	InstallerDownloadFailedFmt           = "download %s: %w"
	InstallerDownloadTimeoutFmt          = "download %s timed out"
	InstallerDownload404Fmt              = "download %s: not found"
	InstallerDownloadUnexpectedStatusFmt = "download %s: unexpected status %s"
	InstallerDownloadTooLargeFmt         = "download %s: response too large (%d bytes > %d)"
	InstallerBuildRequestFmt             = "build request for %s: %w"
	InstallerOpenFileFmt                 = "open %s: %w"
	InstallerHashFileFmt                 = "hash %s: %w"
	InstallerChecksumMismatchFmt         = "checksum mismatch for %s (expected %s, got %s)"
	InstallerOpenLockFmt                 = "open lock %s: %w"
	InstallerLockFmt                     = "lock %s: %w"
	InstallerLockTimeoutFmt              = "timed out waiting for installer lock after %s"
	InstallerRetryBudgetExhausted        = "retry budget exhausted"
	InstallerDownloading                 = "Downloading the Quilt server installer"
	InstallerUsingCached                 = "Using cached Quilt server installer"
	InstallerRunning                     = "Installing the Minecraft server"
)
