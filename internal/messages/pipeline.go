package messages

// Provisioning pipeline messages.
const (
	PipelineDuplicateMilestoneFmt = "milestone %s has more than one producer"
	PipelineUnknownRequirementFmt = "milestone %s requires %s, which nothing produces"
	PipelineCycleFmt              = "milestone graph has a cycle: %s"
	PipelineMilestoneFailedFmt    = "%s: %w"
	PipelineStoreRequired         = "provisioning requires a configuration store"
	PipelineCaptureRequired       = "provisioning requires a capture step"
	PipelineInstallerRequired     = "provisioning requires a server installer"
	PipelineAddonsRequired        = "provisioning requires an add-on coordinator"
	PipelinePackagesRequired      = "provisioning requires a package registry"
	PipelineSettingsRequired      = "provisioning requires a settings assembler"
	PipelineEulaContent           = "eula=true\n"
)
