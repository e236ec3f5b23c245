package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt        = "missing config file %s: %w"
	ConfigFailedReadTemplateFmt = "failed to read default config: %w"
	ConfigInvalidConfigFmt      = "invalid config %s: %w"
	ConfigExpandPathFmt         = "expand config path %s: %w"

	ConfigInstancesRequiredFmt    = "%s: servicenow.instances must list at least one instance"
	ConfigInstanceBlankFmt        = "%s: servicenow.instances[%d] is blank"
	ConfigInstanceDuplicateFmt    = "%s: servicenow.instances[%d] %q duplicates servicenow.instances[%d]"
	ConfigBaseURLInvalidFmt       = "%s: servicenow.base_url %q must contain exactly one %%s placeholder for the instance name"
	ConfigTimestampLayoutEmptyFmt = "%s: servicenow.timestamp_layout is required"
	ConfigTimeoutInvalidFmt       = "%s: servicenow.timeout_seconds must be greater than zero"
	ConfigCredentialEnvEmptyFmt   = "%s: credentials.%s is required"
)
