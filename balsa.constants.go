package balsa

import "time"

// Delimiter constants
const (
	DefaultOpenDelim  = "{{"
	DefaultCloseDelim = "}}"
)

// Default configuration values
const (
	DefaultMaxTemplateSize = 4 * 1024 * 1024 // 4MB
)

// Cache configuration defaults
const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 1000
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNameSQLite     = "sqlite"
	StorageDriverNamePostgres   = "postgres"
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "balsa_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// SQLite storage driver configuration defaults
const (
	SQLiteDefaultBusyTimeout = 5 * time.Second
	SQLiteTableName          = "balsa_templates"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyVariable     = "variable"
	MetaKeyExpected     = "expected"
	MetaKeyActual       = "actual"
	MetaKeyValue        = "value"
	MetaKeyReason       = "reason"
	MetaKeyCycle        = "cycle"
	MetaKeyMissing      = "missing"
	MetaKeySuggestions  = "suggestions"
	MetaKeyDetail       = "detail"
	MetaKeyTemplateName = "template_name"
	MetaKeyVersion      = "version"
	MetaKeyDriverName   = "driver"
	MetaKeyFormat       = "format"
	MetaKeyPath         = "path"
	MetaKeySize         = "size"
	MetaKeyLimit        = "limit"
)

// ValidationSeverity indicates the severity of a validation issue.
type ValidationSeverity int

const (
	// SeverityError indicates a problem that prevents rendering
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a potential issue for editors or callers
	SeverityWarning
	// SeverityInfo indicates informational feedback
	SeverityInfo
)

// Validation severity string names
const (
	SeverityNameError   = "error"
	SeverityNameWarning = "warning"
	SeverityNameInfo    = "info"
)

// String returns the string representation of the validation severity
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return SeverityNameError
	case SeverityWarning:
		return SeverityNameWarning
	case SeverityInfo:
		return SeverityNameInfo
	default:
		return SeverityNameError
	}
}

// MarshalText encodes the severity by name for JSON and YAML reports
func (s ValidationSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Output and input format names
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTOML     = "toml"
	FormatHCL      = "hcl"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgTemplateParsed     = "template parsed"
	LogMsgTemplateRegistered = "template registered"
	LogMsgTemplateRendered   = "template rendered"
	LogMsgStorageOpened      = "storage opened"
	LogMsgStorageRender      = "rendering stored template"
	LogMsgStorageSave        = "saving template to storage"
	LogMsgCacheHit           = "storage cache hit"
	LogMsgCacheMiss          = "storage cache miss"
	LogMsgOverridesLoaded    = "overrides loaded"
)

// Log field names
const (
	LogFieldTemplateName = "template_name"
	LogFieldVersion      = "version"
	LogFieldVariables    = "variable_count"
	LogFieldOverrides    = "override_count"
	LogFieldSourceLength = "source_length"
	LogFieldOutputLength = "output_length"
	LogFieldFormat       = "format"
	LogFieldPath         = "path"
	LogFieldDriver       = "driver"
)
