package messages

// Package manager (add-on download) messages.
const (
	AddonsRunnerRequired     = "add-on coordinator requires a process runner"
	AddonsProfileRequired    = "profile name is required"
	AddonsInstallDirRequired = "install directory is required"
	AddonsVersionRequired    = "game version is required"
	AddonsCreateModsDirFmt   = "create mods directory %s: %w"
	AddonsCreateProfileFmt   = "create profile %s: %w"
	AddonsSwitchProfileFmt   = "switch to profile %s: %w"
	AddonsAddFmt             = "add %s: %w"
	AddonsUpgradeFmt         = "download add-ons for profile %s: %w"
)
