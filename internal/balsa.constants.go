package internal

// Delimiter defaults
const (
	StrOpenDelim  = "{{"
	StrCloseDelim = "}}"
)

// Placeholder prefix characters
const (
	CharDeclaration = '@'
	CharReference   = '$'
)

// Character constants
const (
	CharColon       = ':'
	CharComma       = ','
	CharEquals      = '='
	CharMinus       = '-'
	CharDot         = '.'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBackslash   = '\\'
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
)

// Meta keys recognised in editable references
const (
	MetaKeyType         = "type"
	MetaKeyFriendlyName = "friendlyName"
	MetaKeyDefaultValue = "defaultValue"
)

// KnownMetaKeys lists the keys accepted after the variable name of an editable reference.
var KnownMetaKeys = []string{MetaKeyType, MetaKeyFriendlyName, MetaKeyDefaultValue}

// Literal keywords
const (
	KeywordTrue  = "true"
	KeywordFalse = "false"
)

// Display limits for debug strings
const (
	MaxStringDisplayLength = 50
	TruncatedStringLength  = 47
	TruncationSuffix       = "..."
)

// MaxSuggestions bounds the number of "did you mean" candidates attached to an error.
const MaxSuggestions = 3

// Log message constants
const (
	LogMsgScannerCreated    = "scanner created"
	LogMsgScanStart         = "starting scan"
	LogMsgScanEnd           = "scan complete"
	LogMsgParserCreated     = "parser created"
	LogMsgParseStart        = "starting parse"
	LogMsgParseEnd          = "parse complete"
	LogMsgRegistryCreated   = "registry created"
	LogMsgVariableDeclared  = "variable declared"
	LogMsgVariableMerged    = "variable metadata merged"
	LogMsgDefaultReplaced   = "default replaced by later placeholder"
	LogMsgCollectEnd        = "collection complete"
	LogMsgResolveStart      = "starting resolution"
	LogMsgResolveOrder      = "resolution order computed"
	LogMsgResolveEnd        = "resolution complete"
	LogMsgOverrideUnknown   = "override for undeclared variable ignored"
	LogMsgRendererCreated   = "renderer created"
	LogMsgRenderStart       = "starting render"
	LogMsgRenderEnd         = "render complete"
)

// Log field names
const (
	LogFieldSource       = "source_length"
	LogFieldSegments     = "segment_count"
	LogFieldNodes        = "node_count"
	LogFieldVariable     = "variable"
	LogFieldVariables    = "variable_count"
	LogFieldOverrides    = "override_count"
	LogFieldOrder        = "order"
	LogFieldOffset       = "offset"
	LogFieldOutputLength = "output_length"
	LogFieldSuggestions  = "suggestions"
)

// Error message constants
const (
	ErrMsgUnterminatedPlaceholder = "unterminated placeholder"
	ErrMsgNestedPlaceholder       = "nested placeholder opening inside placeholder"
	ErrMsgEmptyPlaceholder        = "empty placeholder"
	ErrMsgUnterminatedString      = "unterminated string literal"
	ErrMsgUnexpectedChar          = "unexpected character"
	ErrMsgUnexpectedToken         = "unexpected token"
	ErrMsgUnexpectedEnd           = "unexpected end of placeholder"
	ErrMsgInvalidNumber           = "invalid number literal"
	ErrMsgExpectedName            = "expected variable name"
	ErrMsgExpectedColon           = "expected ':'"
	ErrMsgExpectedComma           = "expected ','"
	ErrMsgExpectedTypeName        = "expected type name"
	ErrMsgUnknownType             = "unknown type"
	ErrMsgUnknownMetaKey          = "unknown key"
	ErrMsgDuplicateMetaKey        = "duplicate key"
	ErrMsgFriendlyNameNotString   = "friendlyName must be a quoted string"
	ErrMsgExpectedValue           = "expected value"
	ErrMsgTrailingReference       = "value reference takes no metadata"
	ErrMsgUnknownOverride         = "override for undeclared variable"
	ErrMsgInvalidColor            = "invalid CSS color"
)

// Unresolved reasons
const (
	ReasonNoValue     = "no default and no override"
	ReasonUndeclared  = "not declared in template"
	ReasonNotInValues = "missing from resolved values"
)
