package balsa

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoredTemplate represents a template with metadata stored in a storage backend.
type StoredTemplate struct {
	// ID is the unique identifier for this template version (a UUID).
	ID string `json:"id" yaml:"id"`

	// Name is the template name used for lookups.
	Name string `json:"name" yaml:"name"`

	// Source is the raw template source.
	Source string `json:"source" yaml:"source"`

	// Version is the version number (1, 2, 3, ...). Higher versions are newer.
	Version int `json:"version" yaml:"version"`

	// Overrides is a saved set of variable values applied when rendering by name.
	// Values are strings, numbers or booleans.
	Overrides map[string]any `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	// Metadata contains arbitrary key-value pairs for user-defined data.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// CreatedAt is when this version was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when this version was last modified.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// CreatedBy identifies who created this version (optional).
	CreatedBy string `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// TemplateQuery defines filters for listing templates.
type TemplateQuery struct {
	// Tags filters to templates having ALL specified tags.
	Tags []string

	// CreatedBy filters by creator.
	CreatedBy string

	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip (for pagination).
	Offset int

	// IncludeAllVersions includes all versions, not just latest.
	IncludeAllVersions bool
}

// TemplateStorage is the interface for pluggable storage backends.
// Implementations must be safe for concurrent use.
type TemplateStorage interface {
	// Get retrieves the latest version of a template by name.
	// Returns an error matching ErrTemplateNotFound if the template doesn't exist.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// GetVersion retrieves a specific version of a template.
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save stores a template. If a template with the same name exists,
	// a new version is created. ID, Version, CreatedAt and UpdatedAt are
	// set by the storage and written back to tmpl.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes all versions of a template by name.
	Delete(ctx context.Context, name string) error

	// List returns templates matching the query, ordered by name then version (descending).
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	// Exists checks if a template with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers for a template, newest first.
	// Returns an empty slice if the template doesn't exist.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance with the given connection string.
	// The format of the connection string is driver-specific.
	Open(connectionString string) (TemplateStorage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if the driver is nil or the name is already taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
// Example:
//
//	storage, err := balsa.OpenStorage("memory", "")
//	storage, err := balsa.OpenStorage("filesystem", "/path/to/templates")
//	storage, err := balsa.OpenStorage("sqlite", "/path/to/balsa.db")
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "template version not found"
	ErrMsgInvalidTemplateName     = "invalid template name"
	ErrMsgStorageOperation        = "storage operation failed"
)

// NewStorageDriverNotFoundError creates an error for a missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgStorageDriverNotFound,
		Name:    name,
	}
}

// NewStorageTemplateNotFoundError creates an error for a template missing from storage.
func NewStorageTemplateNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgTemplateNotFound,
		Name:    name,
		Cause:   ErrTemplateNotFound,
	}
}

// NewStorageVersionNotFoundError creates an error for a missing version.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{
		Message: ErrMsgVersionNotFound,
		Name:    name,
		Version: version,
		Cause:   ErrTemplateNotFound,
	}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// NewStorageOperationError wraps a backend failure.
func NewStorageOperationError(name string, cause error) error {
	return &StorageError{
		Message: ErrMsgStorageOperation,
		Name:    name,
		Cause:   cause,
	}
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Name != "" {
		b.WriteString(": ")
		b.WriteString(e.Name)
		if e.Version > 0 {
			b.WriteString(" v")
			b.WriteString(strconv.Itoa(e.Version))
		}
	}
	if e.Cause != nil && e.Cause != ErrTemplateNotFound {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// generateTemplateID generates a unique template version ID.
func generateTemplateID() string {
	return uuid.New().String()
}

// newStoredVersion builds the record persisted for the next version of tmpl.
func newStoredVersion(tmpl *StoredTemplate, version int, now time.Time) *StoredTemplate {
	stored := copyStoredTemplate(tmpl)
	stored.ID = generateTemplateID()
	stored.Version = version
	stored.CreatedAt = now
	stored.UpdatedAt = now
	return stored
}

// writeBack copies the generated fields of stored into the caller's template.
func writeBack(tmpl, stored *StoredTemplate) {
	tmpl.ID = stored.ID
	tmpl.Version = stored.Version
	tmpl.CreatedAt = stored.CreatedAt
	tmpl.UpdatedAt = stored.UpdatedAt
}

// matchesQuery checks if a template matches the query filters.
func matchesQuery(tmpl *StoredTemplate, query *TemplateQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(tmpl.Name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(tmpl.Name, query.NameContains) {
		return false
	}
	if query.CreatedBy != "" && tmpl.CreatedBy != query.CreatedBy {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(tmpl.Tags, tag) {
			return false
		}
	}
	return true
}

// applyQuery filters, sorts and paginates a set of stored versions.
// Input may hold every version of every template.
func applyQuery(all []*StoredTemplate, query *TemplateQuery) []*StoredTemplate {
	if query == nil {
		query = &TemplateQuery{}
	}

	latest := make(map[string]int)
	for _, tmpl := range all {
		if tmpl.Version > latest[tmpl.Name] {
			latest[tmpl.Name] = tmpl.Version
		}
	}

	results := make([]*StoredTemplate, 0, len(all))
	for _, tmpl := range all {
		if !query.IncludeAllVersions && tmpl.Version != latest[tmpl.Name] {
			continue
		}
		if matchesQuery(tmpl, query) {
			results = append(results, tmpl)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredTemplate{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}

// containsString checks if a slice contains a string.
func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// copyStoredTemplate creates a deep copy of a StoredTemplate.
func copyStoredTemplate(tmpl *StoredTemplate) *StoredTemplate {
	if tmpl == nil {
		return nil
	}
	return &StoredTemplate{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Source:    tmpl.Source,
		Version:   tmpl.Version,
		Overrides: copyAnyMap(tmpl.Overrides),
		Metadata:  copyStringMap(tmpl.Metadata),
		Tags:      copyStringSlice(tmpl.Tags),
		CreatedAt: tmpl.CreatedAt,
		UpdatedAt: tmpl.UpdatedAt,
		CreatedBy: tmpl.CreatedBy,
	}
}

// copyAnyMap creates a shallow copy of an override map.
func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// copyStringMap creates a copy of a string map.
func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// copyStringSlice creates a copy of a string slice.
func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}
