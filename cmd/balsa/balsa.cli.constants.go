package main

// Command names
const (
	CmdNameRender    = "render"
	CmdNameCatalogue = "catalogue"
	CmdNameValidate  = "validate"
	CmdNameStore     = "store"
	CmdNamePut       = "put"
	CmdNameList      = "list"
	CmdNameGet       = "get"
	CmdNameDelete    = "delete"
	CmdNameVersions  = "versions"
	CmdNameVersion   = "version"
)

// Flag names - long form
const (
	FlagConfig     = "config"
	FlagStorage    = "storage"
	FlagDSN        = "dsn"
	FlagVerbose    = "verbose"
	FlagStored     = "stored"
	FlagVersion    = "version"
	FlagSet        = "set"
	FlagOverrides  = "overrides"
	FlagOutput     = "output"
	FlagFormat     = "format"
	FlagStrictMode = "strict"
	FlagTag        = "tag"
	FlagCreatedBy  = "created-by"
	FlagPrefix     = "prefix"
	FlagAll        = "all"
)

// Flag names - short form
const (
	FlagOutputShort  = "o"
	FlagFormatShort  = "F"
	FlagSetShort     = "s"
	FlagVerboseShort = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText     = "text"
	OutputFormatJSON     = "json"
	OutputFormatYAML     = "yaml"
	OutputFormatMarkdown = "markdown"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages
const (
	ErrMsgMissingTemplate     = "template file or --stored name required"
	ErrMsgBothSources         = "give either a template file or --stored, not both"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgParseTemplateFailed = "template parsing failed"
	ErrMsgRenderFailed        = "template rendering failed"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgInvalidOverride     = "invalid override"
	ErrMsgLoadConfigFailed    = "failed to load config"
	ErrMsgOpenStorageFailed   = "failed to open storage"
	ErrMsgStorageFailed       = "storage operation failed"
	ErrMsgValidationFailed    = "template validation failed"
	ErrMsgVersionWithoutName  = "--version requires --stored"
	ErrMsgInvalidLogLevel     = "invalid log level"
	ErrMsgInvalidFlags        = "invalid flags"
	ErrMsgEngineFailed        = "failed to create engine"
)

// Config file location
const (
	ConfigDirName  = "balsa"
	ConfigFileName = "config.toml"
	DataDirName    = "templates"
)

// Config defaults
const (
	ConfigDefaultDriver   = "filesystem"
	ConfigDefaultLogLevel = "warn"
)

// Validation output
const (
	ValidationTextSuccess      = "Template is valid"
	ValidationTextIssueHeader  = "Validation issues:"
	ValidationTextIssueFormat  = "  [%s] %s at line %d, column %d"
	ValidationTextErrorSummary = "%d error(s), %d warning(s)"
)

// Severity names for text output
const (
	SeverityNameError   = "ERROR"
	SeverityNameWarning = "WARNING"
	SeverityNameInfo    = "INFO"
)

// Store command output
const (
	StoreTextSaved      = "saved %s v%d\n"
	StoreTextDeleted    = "deleted %s\n"
	StoreTextListHeader = "NAME\tVERSION\tUPDATED\tTAGS"
	StoreTextListRow    = "%s\t%d\t%s\t%s\n"
	StoreTextEmpty      = "no templates stored"
	StoreTimeFormat     = "2006-01-02 15:04"
	StoreTimeFormatJSON = "2006-01-02T15:04:05Z07:00"
	StoreTagSeparator   = ","
	StoreTextVersionRow = "v%d\n"
)

// Catalogue command output
const (
	CatalogueTextEmpty     = "template has no variables"
	CatalogueTextDefault   = "default %s"
	CatalogueTextRequired  = "required"
	CatalogueTextRowFormat = "%s  %s  %s  %s\n"
	CatalogueTextInferred  = " (inferred)"
	CatalogueTextRefPrefix = "$"
)

// Version output
const (
	VersionTextTemplate = "balsa version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// CLI metadata
const (
	CLIName        = "balsa"
	CLIDescription = "Typed, editable HTML templates"
	CLILong        = `balsa renders HTML templates whose placeholders declare typed, editable
variables. It lists the variables of a template, checks it, renders it with
overrides and keeps named, versioned templates in a storage backend.`
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtNewline        = "\n"
)

// Log messages
const (
	LogMsgCommandStarted     = "command started"
	LogMsgStorageOpened      = "storage opened"
	LogMsgStorageCloseFailed = "failed to close storage"
)

// Log field names
const (
	LogFieldCommand = "command"
	LogFieldDriver  = "driver"
	LogFieldDSN     = "dsn"
)
