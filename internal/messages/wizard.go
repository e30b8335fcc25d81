package messages

// Configuration capture prompts and errors.
const (
	WizardRequiresTerminal  = "interactive setup requires a terminal; pass --non-interactive with an [answers] table in msm.toml"
	WizardCancelled         = "setup cancelled"
	WizardBack              = "back"
	WizardStoreRequired     = "capture requires a configuration store"
	WizardUIRequired        = "capture requires a prompt UI"
	WizardPublishFailedFmt  = "record %s: %w"
	WizardListPackagesFmt   = "list packages: %w"
	WizardNoPackages        = "no mod packages found in the registry"
	WizardUnknownPackageFmt = "unknown package %q"
	WizardAnswerMissingFmt  = "answers: %s is required"
	WizardAnswerInvalidFmt  = "answers: %w"

	WizardLocationTitle    = "Where should the server be created?"
	WizardVersionTitle     = "Minecraft version"
	WizardNameTitle        = "Server name"
	WizardSettingTitleFmt  = "Server setting: %s"
	WizardOptionalConfirm  = "Set any other server.properties values?"
	WizardOptionalKeyTitle = "Setting name (enter \"done\" to finish)"
	WizardOptionalValueFmt = "Value for %s"
	WizardOptionalDone     = "done"
	WizardPackageTitle     = "Mod package"
	WizardCompleteTitle    = "Configuration complete"
	WizardCompleteBody     = "Setup will continue in the background. This can take a few minutes."
)
