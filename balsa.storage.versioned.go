package balsa

import (
	"context"
	"sync"
	"time"
)

// versionBackend holds the version records of a store that numbers versions
// itself. Methods are called with the store lock held.
type versionBackend interface {
	// names lists every template name with at least one version.
	names() ([]string, error)
	// versions returns the version numbers of name, newest first; empty when unknown.
	versions(name string) ([]int, error)
	// read returns one version record, or a version-not-found StorageError.
	read(name string, version int) (*StoredTemplate, error)
	// write persists a new version record.
	write(stored *StoredTemplate) error
	// remove drops every version of name and reports whether any existed.
	remove(name string) (bool, error)
	// release frees the backend once the store is closed.
	release()
}

// versionedStore implements TemplateStorage on top of a versionBackend.
// It owns locking, the closed state, name checks and version numbering, so
// two saves of one name never get the same version.
type versionedStore struct {
	mu        sync.RWMutex
	closed    bool
	backend   versionBackend
	checkName func(name string) error
}

// enter checks the context and the closed flag under the read or write lock.
// On success the caller must run the returned unlock.
func (s *versionedStore) enter(ctx context.Context, write bool) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := s.mu.RUnlock
	if write {
		s.mu.Lock()
		unlock = s.mu.Unlock
	} else {
		s.mu.RLock()
	}
	if s.closed {
		unlock()
		return nil, NewStorageClosedError()
	}
	return unlock, nil
}

// enterNamed is enter for operations addressing one template.
func (s *versionedStore) enterNamed(ctx context.Context, name string, write bool) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	return s.enter(ctx, write)
}

// Get retrieves the latest version of a template by name.
func (s *versionedStore) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	unlock, err := s.enterNamed(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	versions, err := s.backend.versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewStorageTemplateNotFoundError(name)
	}
	return s.backend.read(name, versions[0])
}

// GetVersion retrieves a specific version of a template.
func (s *versionedStore) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	unlock, err := s.enterNamed(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.backend.read(name, version)
}

// Save stores tmpl as the next version of its name and writes the generated
// ID, version and timestamps back into tmpl.
func (s *versionedStore) Save(ctx context.Context, tmpl *StoredTemplate) error {
	unlock, err := s.enterNamed(ctx, tmpl.Name, true)
	if err != nil {
		return err
	}
	defer unlock()

	versions, err := s.backend.versions(tmpl.Name)
	if err != nil {
		return err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0] + 1
	}

	stored := newStoredVersion(tmpl, next, time.Now())
	if err := s.backend.write(stored); err != nil {
		return err
	}
	writeBack(tmpl, stored)
	return nil
}

// Delete removes all versions of a template by name.
func (s *versionedStore) Delete(ctx context.Context, name string) error {
	unlock, err := s.enterNamed(ctx, name, true)
	if err != nil {
		return err
	}
	defer unlock()

	found, err := s.backend.remove(name)
	if err != nil {
		return err
	}
	if !found {
		return NewStorageTemplateNotFoundError(name)
	}
	return nil
}

// List returns templates matching the query. Records the backend cannot
// read are skipped.
func (s *versionedStore) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	unlock, err := s.enter(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	names, err := s.backend.names()
	if err != nil {
		return nil, err
	}

	var all []*StoredTemplate
	for _, name := range names {
		versions, err := s.backend.versions(name)
		if err != nil {
			continue
		}
		for _, version := range versions {
			if tmpl, err := s.backend.read(name, version); err == nil {
				all = append(all, tmpl)
			}
		}
	}
	return applyQuery(all, query), nil
}

// Exists checks if a template with the given name exists.
func (s *versionedStore) Exists(ctx context.Context, name string) (bool, error) {
	unlock, err := s.enterNamed(ctx, name, false)
	if err != nil {
		return false, err
	}
	defer unlock()

	versions, err := s.backend.versions(name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a template, newest first.
func (s *versionedStore) ListVersions(ctx context.Context, name string) ([]int, error) {
	unlock, err := s.enterNamed(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.backend.versions(name)
}

// Close marks the store closed and releases the backend.
func (s *versionedStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.backend.release()
	}
	return nil
}

// requireTemplateName rejects the empty name.
func requireTemplateName(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	return nil
}
