package messages

// System messages for remote access, credentials, and output.
const (
	// EnvfileLineErrorFmt formats envfile line errors.
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileReadFailedFmt           = "failed to read env content: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "invalid trailing characters after quoted value"

	// CredentialsMissing indicates the username or password is empty.
	CredentialsMissing        = "username or password is empty"
	CredentialsMissingVarsFmt = "%w: set %s and %s"
	CredentialsReadEnvFileFmt = "read env file %s: %w"
	CredentialsParseEnvFmt    = "invalid env file %s: %w"

	// ReconcileInvalidNames indicates a name list failed validation.
	ReconcileInvalidNames    = "update set names must be a non-empty list of non-empty strings"
	ReconcileEmptyListFmt    = "%w: %s list is empty"
	ReconcileBlankElementFmt = "%w: %s[%d] is blank"
	ReconcileLeftLabel       = "left"
	ReconcileRightLabel      = "right"
	ReconcileNamesLabel      = "names"

	// ServiceNowInvalidInstance indicates an instance outside the allow-list.
	ServiceNowInvalidInstance      = "please enter a valid instance name"
	ServiceNowInvalidInstanceFmt   = "%w: %q (allowed: %s)"
	ServiceNowCreateRequestErrFmt  = "create request %s: %w"
	ServiceNowRequestErrFmt        = "request %s: %w"
	ServiceNowUnexpectedStatusFmt  = "%s: unexpected status %s"
	ServiceNowDecodeErrFmt         = "decode response from %s: %w"
	ServiceNowSplitWarningFmt      = "%s: received 400, splitting into %d calls\n"
	ServiceNowTimestampParseErrFmt = "parse %s %q of update set %q: %w"
	ServiceNowInstallOrderOp       = "get install order"
	ServiceNowNewInstallOrderOp    = "get install order for new sets"

	// SpreadsheetNoRecords indicates there was nothing to write.
	SpreadsheetNoRecords     = "update set list was empty"
	SpreadsheetExpandPathFmt = "expand output path %s: %w"
	SpreadsheetHeaderFmt     = "write header %s: %w"
	SpreadsheetRowFmt        = "write row %d: %w"
	SpreadsheetCellNameFmt   = "resolve cell %d,%d: %w"
	SpreadsheetSaveFmt       = "save %s: %w"

	// UpdateSetArrayValueFmt rejects array field values.
	UpdateSetArrayValueFmt      = "unsupported array field value %s"
	UpdateSetRecordNotObjectFmt = "update set record must be a JSON object, got %v"
	UpdateSetRecordKeyFmt       = "unexpected record key %v"
	UpdateSetFieldFmt           = "field %q: %w"
)
