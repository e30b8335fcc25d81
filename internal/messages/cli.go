package messages

// CLI messages for user-facing commands and output.
const (
	// RootUse is the CLI command name.
	RootUse = "msm"
	// RootShort is the short description for the root command.
	RootShort       = "Minecraft Server Maker: provision a Quilt server with a mod package"
	RootVersionFlag = "Print version and exit"
	RootFlagConfig  = "Path to msm.toml (defaults to ./msm.toml, then the user config directory)"
	RootFlagVerbose = "Increase log verbosity (-v info, -vv debug, -vvv trace)"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	CreateUse                = "create"
	CreateShort              = "Capture server settings and provision a new server"
	CreateFlagNonInteractive = "Read answers from the [answers] table instead of prompting"
	CreateFlagMetricsFile    = "Write run metrics in Prometheus text format to this file"
	CreateFlagParallelAdds   = "Maximum number of concurrent add-on requests (overrides config)"
	CreateDoneFmt            = "All done! Your server is ready in %s\n"
	CreateAddonsFmt          = "Installed %d add-ons from %s\n"
	CreateFailedFmt          = "Server creation failed: %v\n"
	CreateWriteMetricsFmt    = "write metrics file %s: %w"

	PackagesUse           = "packages"
	PackagesShort         = "Inspect the mod package registry"
	PackagesListUse       = "list"
	PackagesListShort     = "List available mod packages"
	PackagesResolveUse    = "resolve <package>"
	PackagesResolveShort  = "Show the add-ons and config files a package resolves to"
	PackagesNoneFmt       = "No mod packages found in %s.\n"
	PackagesPackagesFmt   = "Packages: %s\n"
	PackagesAddonsHeader  = "Add-ons:"
	PackagesConfigsHeader = "Config files:"
	PackagesConfigLineFmt = "  %s -> config/%s\n"
	PackagesItemFmt       = "  %s\n"
)
