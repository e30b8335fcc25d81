package pipeline

import "github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"

// Milestones of a provisioning run.
const (
	CaptureComplete  Milestone = "CaptureComplete"
	LocationKnown    Milestone = "LocationKnown"
	VersionKnown     Milestone = "VersionKnown"
	NameKnown        Milestone = "NameKnown"
	PackageKnown     Milestone = "PackageKnown"
	SettingsFinal    Milestone = "SettingsFinal"
	InstallerReady   Milestone = "InstallerReady"
	ServerDownloaded Milestone = "ServerDownloaded"
	ScriptsStaged    Milestone = "ScriptsStaged"
	SettingsWritten  Milestone = "SettingsWritten"
	Renamed          Milestone = "Renamed"
	ProfileCreated   Milestone = "ProfileCreated"
	AddonsResolved   Milestone = "AddonsResolved"
	AddonsDownloaded Milestone = "AddonsDownloaded"
	ConfigsStaged    Milestone = "ConfigsStaged"
	SettingsMerged   Milestone = "SettingsMerged"
	Done             Milestone = "Done"
)

// Staging names inside the target directory.
const (
	// StagingDir holds the server until it is renamed to the deployment name.
	StagingDir = store.StagingDirName
	// ConfigDir receives add-on configuration files inside the install dir.
	ConfigDir = "config"
	EulaFile  = "eula.txt"
)
