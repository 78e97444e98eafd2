package balsa

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Negative cache default
const DefaultNegativeCacheTTL = 30 * time.Second

// CachedStorage wraps any TemplateStorage with in-memory caching of Get.
type CachedStorage struct {
	storage TemplateStorage
	config  CacheConfig
	logger  *zap.Logger

	mu     sync.RWMutex
	cache  map[string]*cacheEntry
	closed bool
}

// CacheConfig configures the caching behavior.
type CacheConfig struct {
	// TTL is how long cached entries remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached templates.
	// When exceeded, the least recently used entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeCacheTTL is how long to cache "not found" results.
	// Set to 0 to disable negative caching.
	NegativeCacheTTL time.Duration

	// Logger receives cache hit and miss events at debug level.
	Logger *zap.Logger
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:              DefaultCacheTTL,
		MaxEntries:       DefaultCacheMaxEntries,
		NegativeCacheTTL: DefaultNegativeCacheTTL,
	}
}

// cacheEntry represents a cached template.
type cacheEntry struct {
	template   *StoredTemplate
	notFound   bool
	cachedAt   time.Time
	accessedAt atomic.Int64 // unix nanos, updated under the read lock
	key        string
}

// NewCachedStorage wraps a storage with caching.
func NewCachedStorage(storage TemplateStorage, config CacheConfig) *CachedStorage {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedStorage{
		storage: storage,
		config:  config,
		logger:  logger,
		cache:   make(map[string]*cacheEntry),
	}
}

// Get retrieves a template, using cache when available.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, NewStorageClosedError()
	}

	entry, ok := s.cache[name]
	if ok && s.isValid(entry) {
		entry.accessedAt.Store(time.Now().UnixNano())
		s.mu.RUnlock()

		s.logger.Debug(LogMsgCacheHit, zap.String(LogFieldTemplateName, name))
		if entry.notFound {
			return nil, NewStorageTemplateNotFoundError(name)
		}
		return copyStoredTemplate(entry.template), nil
	}
	s.mu.RUnlock()

	s.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldTemplateName, name))
	tmpl, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if err != nil {
		if s.config.NegativeCacheTTL > 0 && IsNotFoundError(err) {
			s.addEntry(name, nil, true)
		}
		return nil, err
	}

	s.addEntry(name, tmpl, false)
	return copyStoredTemplate(tmpl), nil
}

// GetVersion retrieves a specific version (bypasses cache).
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	return s.storage.GetVersion(ctx, name, version)
}

// Save stores a template and invalidates cache.
func (s *CachedStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := s.storage.Save(ctx, tmpl); err != nil {
		return err
	}
	s.Invalidate(tmpl.Name)
	return nil
}

// Delete removes a template and invalidates cache.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List returns templates matching the query (bypasses cache).
func (s *CachedStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return s.storage.List(ctx, query)
}

// Exists checks if a template exists (may use cache).
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false, NewStorageClosedError()
	}

	entry, ok := s.cache[name]
	if ok && s.isValid(entry) {
		s.mu.RUnlock()
		return !entry.notFound, nil
	}
	s.mu.RUnlock()

	return s.storage.Exists(ctx, name)
}

// ListVersions returns version numbers (bypasses cache).
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.storage.ListVersions(ctx, name)
}

// Close closes the cache and underlying storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate removes a template from the cache.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*cacheEntry)
	s.mu.Unlock()
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var validCount, negativeCount int
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			negativeCount++
		} else {
			validCount++
		}
	}

	return CacheStats{
		Entries:         len(s.cache),
		ValidEntries:    validCount,
		NegativeEntries: negativeCount,
	}
}

// isValid checks if a cache entry is still valid.
func (s *CachedStorage) isValid(entry *cacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeCacheTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry adds an entry to the cache, evicting if necessary.
// Caller must hold write lock.
func (s *CachedStorage) addEntry(name string, tmpl *StoredTemplate, notFound bool) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	entry := &cacheEntry{
		template: tmpl,
		notFound: notFound,
		cachedAt: now,
		key:      name,
	}
	entry.accessedAt.Store(now.UnixNano())
	s.cache[name] = entry
}

// evictOldest removes the least recently accessed entry.
// Caller must hold write lock.
func (s *CachedStorage) evictOldest() {
	var oldest *cacheEntry
	for _, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Load() < oldest.accessedAt.Load() {
			oldest = entry
		}
	}
	if oldest != nil {
		delete(s.cache, oldest.key)
	}
}
