package balsa

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Storage engine error messages
const (
	ErrMsgNilStorage = "storage is required"
)

// StorageEngine combines template storage with the engine.
// It loads templates by name, keeps the parsed form per version
// and applies the overrides saved alongside each template.
type StorageEngine struct {
	engine  *Engine
	storage TemplateStorage

	// Parsed template cache
	mu           sync.RWMutex
	parsedCache  map[string]*parsedCacheEntry
	cacheEnabled bool
}

// parsedCacheEntry caches a parsed template with the ID of the stored version
// it came from. Versions restart at 1 after a delete, IDs never repeat.
type parsedCacheEntry struct {
	template *Template
	id       string
}

// StorageEngineConfig configures the StorageEngine.
type StorageEngineConfig struct {
	// Storage is the template storage backend (required).
	Storage TemplateStorage

	// Engine is the template engine to use.
	// If nil, a new engine with default options is created.
	Engine *Engine

	// DisableParsedTemplateCache always re-parses templates on load.
	DisableParsedTemplateCache bool
}

// NewStorageEngine creates a new StorageEngine with the given configuration.
func NewStorageEngine(config StorageEngineConfig) (*StorageEngine, error) {
	if config.Storage == nil {
		return nil, &StorageError{Message: ErrMsgNilStorage}
	}

	engine := config.Engine
	if engine == nil {
		var err error
		engine, err = New()
		if err != nil {
			return nil, err
		}
	}

	return &StorageEngine{
		engine:       engine,
		storage:      config.Storage,
		parsedCache:  make(map[string]*parsedCacheEntry),
		cacheEnabled: !config.DisableParsedTemplateCache,
	}, nil
}

// MustNewStorageEngine creates a new StorageEngine, panicking on error.
func MustNewStorageEngine(config StorageEngineConfig) *StorageEngine {
	se, err := NewStorageEngine(config)
	if err != nil {
		panic(err)
	}
	return se
}

// Catalogue returns the variables of the latest version of a stored template.
func (se *StorageEngine) Catalogue(ctx context.Context, name string) (*Catalogue, error) {
	tmpl, _, err := se.loadAndParse(ctx, name)
	if err != nil {
		return nil, err
	}
	return tmpl.Catalogue()
}

// Render renders the latest version of a stored template.
// Overrides saved with the template apply first; overrides wins on conflict.
func (se *StorageEngine) Render(ctx context.Context, name string, overrides Overrides) (string, error) {
	tmpl, stored, err := se.loadAndParse(ctx, name)
	if err != nil {
		return "", err
	}
	return se.render(tmpl, stored, overrides)
}

// RenderVersion renders a specific version of a stored template.
func (se *StorageEngine) RenderVersion(ctx context.Context, name string, version int, overrides Overrides) (string, error) {
	stored, err := se.storage.GetVersion(ctx, name, version)
	if err != nil {
		return "", err
	}

	tmpl, err := se.engine.Parse(stored.Source)
	if err != nil {
		return "", err
	}
	return se.render(tmpl, stored, overrides)
}

// render merges stored and caller overrides and renders tmpl.
func (se *StorageEngine) render(tmpl *Template, stored *StoredTemplate, overrides Overrides) (string, error) {
	saved, err := OverridesFromMap(stored.Overrides)
	if err != nil {
		return "", err
	}

	se.engine.logger.Debug(LogMsgStorageRender,
		zap.String(LogFieldTemplateName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version),
		zap.Int(LogFieldOverrides, len(saved)+len(overrides)),
	)
	return tmpl.Render(saved.Merge(overrides))
}

// Validate validates the latest version of a stored template.
func (se *StorageEngine) Validate(ctx context.Context, name string) (*ValidationResult, error) {
	stored, err := se.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return se.engine.Validate(stored.Source), nil
}

// Save stores a new template or creates a new version.
// The source must parse and its variables must be consistent, and saved
// overrides must be strings, numbers or booleans.
func (se *StorageEngine) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if tmpl.Name == "" {
		return NewEmptyTemplateNameError()
	}

	parsed, err := se.engine.Parse(tmpl.Source)
	if err != nil {
		return err
	}
	if _, err := parsed.collect(); err != nil {
		return err
	}
	if _, err := OverridesFromMap(tmpl.Overrides); err != nil {
		return err
	}

	se.engine.logger.Debug(LogMsgStorageSave, zap.String(LogFieldTemplateName, tmpl.Name))
	if err := se.storage.Save(ctx, tmpl); err != nil {
		return err
	}

	se.invalidateParsedCache(tmpl.Name)
	return nil
}

// Delete removes all versions of a template from storage.
func (se *StorageEngine) Delete(ctx context.Context, name string) error {
	if err := se.storage.Delete(ctx, name); err != nil {
		return err
	}

	se.invalidateParsedCache(name)
	return nil
}

// Get retrieves the latest version of a stored template.
func (se *StorageEngine) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	return se.storage.Get(ctx, name)
}

// List returns templates matching the query.
func (se *StorageEngine) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return se.storage.List(ctx, query)
}

// Exists checks if a template exists in storage.
func (se *StorageEngine) Exists(ctx context.Context, name string) (bool, error) {
	return se.storage.Exists(ctx, name)
}

// ListVersions returns all version numbers for a template.
func (se *StorageEngine) ListVersions(ctx context.Context, name string) ([]int, error) {
	return se.storage.ListVersions(ctx, name)
}

// Engine returns the underlying template engine.
func (se *StorageEngine) Engine() *Engine {
	return se.engine
}

// Storage returns the underlying storage backend.
func (se *StorageEngine) Storage() TemplateStorage {
	return se.storage
}

// Close closes the storage engine and underlying storage.
func (se *StorageEngine) Close() error {
	se.mu.Lock()
	se.parsedCache = nil
	se.mu.Unlock()

	return se.storage.Close()
}

// ClearParsedCache clears the parsed template cache.
func (se *StorageEngine) ClearParsedCache() {
	se.mu.Lock()
	se.parsedCache = make(map[string]*parsedCacheEntry)
	se.mu.Unlock()
}

// ParsedCacheStats contains parsed cache statistics.
type ParsedCacheStats struct {
	Entries int
	Enabled bool
}

// ParsedCacheStats returns statistics about the parsed template cache.
func (se *StorageEngine) ParsedCacheStats() ParsedCacheStats {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return ParsedCacheStats{
		Entries: len(se.parsedCache),
		Enabled: se.cacheEnabled,
	}
}

// loadAndParse loads the latest version of name and parses it,
// reusing the parsed form while the version is unchanged.
func (se *StorageEngine) loadAndParse(ctx context.Context, name string) (*Template, *StoredTemplate, error) {
	stored, err := se.storage.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	if se.cacheEnabled {
		se.mu.RLock()
		entry, ok := se.parsedCache[name]
		se.mu.RUnlock()

		if ok && entry.id == stored.ID {
			return entry.template, stored, nil
		}
	}

	tmpl, err := se.engine.Parse(stored.Source)
	if err != nil {
		return nil, nil, err
	}

	if se.cacheEnabled {
		se.mu.Lock()
		if se.parsedCache != nil {
			se.parsedCache[name] = &parsedCacheEntry{template: tmpl, id: stored.ID}
		}
		se.mu.Unlock()
	}

	return tmpl, stored, nil
}

// invalidateParsedCache removes a template from the parsed cache.
func (se *StorageEngine) invalidateParsedCache(name string) {
	se.mu.Lock()
	delete(se.parsedCache, name)
	se.mu.Unlock()
}
