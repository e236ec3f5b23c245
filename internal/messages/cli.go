package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "snset"
	// RootShort is the short description for the root command.
	RootShort = "Compare ServiceNow update sets between two instances"
	RootLong  = `snset retrieves the complete update sets of two ServiceNow instances,
compares them, and writes the update sets that exist in the source instance
but not in the target instance to a spreadsheet, in the order they must be
installed in.

Usage:
  snset --source {source instance} --target {target instance}
  snset -s {source instance} -t {target instance} -f {file name}

Credentials are read from SN_USER_NAME and SN_PASSWORD (or a .env file).`
	RootVersionFlag = "Print version and exit"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagSource   = "The instance you want update sets from"
	FlagTarget   = "The instance you want to compare to"
	FlagFileName = "Output spreadsheet file name (.xlsx is appended when missing)"
	FlagConfig   = "Path to a snset config.toml (defaults to ~/.config/snset/config.toml when present)"
	FlagEnvFile  = "Path to a .env file used when credentials are not set in the environment"
	FlagForce    = "Overwrite an existing output file without prompting"
	FlagQuiet    = "Suppress progress output"

	// RunBeginFmt announces the compared instances.
	RunBeginFmt            = "Begin retrieving update sets from source: %s and target: %s\n"
	RunSourceSetsBegin     = "Begin get source sets"
	RunSourceSetsFmt       = "Retrieved source sets: %d\n"
	RunTargetSetsBegin     = "\nBegin get target sets"
	RunTargetSetsFmt       = "Retrieved target sets: %d\n"
	RunComputeDiff         = "\nCompute set difference"
	RunInstallOrderFmt     = "\nGet install order for %d update sets\n"
	RunNewSetsFmt          = "Getting %d newly created update sets\n"
	RunNothingToInstallFmt = "No update sets in %s are missing from %s\n"
	RunOutputBegin         = "Output to excel"
	RunWroteFmt            = "Wrote %d update sets to %s\n"
	RunSuccess             = "Success!"
	RunWriteFailedFmt      = "There was an error writing the spreadsheet: %w"
	RunOverwritePromptFmt  = "Overwrite existing file %s?"
	RunOverwriteDeclined   = "output file exists; re-run with --force to overwrite it"

	// PromptRequiresTerminal indicates a prompt was requested without a TTY.
	PromptRequiresTerminal = "prompts require an interactive terminal"
)
