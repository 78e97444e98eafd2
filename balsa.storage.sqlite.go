package balsa

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLite storage error messages
const (
	ErrMsgSQLiteOpenFailed   = "failed to open SQLite database"
	ErrMsgSQLiteEmptyPath    = "SQLite database path is required"
	ErrMsgSQLiteQueryFailed  = "SQLite query failed"
	ErrMsgSQLiteSchemaFailed = "failed to create SQLite schema"
)

// SQLiteStorage implements TemplateStorage on a single SQLite database file.
// Use ":memory:" as the path for a throwaway database.
type SQLiteStorage struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// SQLiteStorageDriver is the driver for creating SQLiteStorage instances.
type SQLiteStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameSQLite, &SQLiteStorageDriver{})
}

// Open creates a new SQLiteStorage instance.
// The connection string is the database file path.
func (d *SQLiteStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewSQLiteStorage(connectionString)
}

// NewSQLiteStorage opens or creates a SQLite database at path and ensures the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, &StorageError{Message: ErrMsgSQLiteEmptyPath}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteOpenFailed, Name: path, Cause: err}
	}

	// one connection keeps pragmas and :memory: databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=" + strconv.FormatInt(SQLiteDefaultBusyTimeout.Milliseconds(), 10),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, &StorageError{Message: ErrMsgSQLiteOpenFailed, Name: path, Cause: err}
		}
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.init(); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// init creates the schema tables.
func (s *SQLiteStorage) init() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		source     TEXT NOT NULL,
		version    INTEGER NOT NULL,
		overrides  TEXT,
		metadata   TEXT,
		tags       TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		created_by TEXT,
		UNIQUE (name, version)
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_name_version ON %[1]s(name, version DESC);`, SQLiteTableName)

	if _, err := s.db.Exec(schema); err != nil {
		return &StorageError{Message: ErrMsgSQLiteSchemaFailed, Cause: err}
	}
	return nil
}

// Get retrieves the latest version of a template by name.
func (s *SQLiteStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE name = ? ORDER BY version DESC LIMIT 1`,
		storedColumns, SQLiteTableName)

	tmpl, err := scanStoredTemplate(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStorageTemplateNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	return tmpl, nil
}

// GetVersion retrieves a specific version of a template.
func (s *SQLiteStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE name = ? AND version = ?`,
		storedColumns, SQLiteTableName)

	tmpl, err := scanStoredTemplate(s.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Version: version, Cause: err}
	}
	return tmpl, nil
}

// Save stores a template, creating a new version if one exists.
func (s *SQLiteStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if tmpl.Name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	overridesJSON, metadataJSON, tagsJSON, err := marshalColumns(tmpl)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLMarshalFailed, Name: tmpl.Name, Cause: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: tmpl.Name, Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var maxVersion int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s WHERE name = ?", SQLiteTableName),
		tmpl.Name).Scan(&maxVersion)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: tmpl.Name, Cause: err}
	}

	stored := newStoredVersion(tmpl, maxVersion+1, time.Now())

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, SQLiteTableName, storedColumns),
		stored.ID, stored.Name, stored.Source, stored.Version,
		string(overridesJSON), string(metadataJSON), string(tagsJSON),
		formatTime(stored.CreatedAt), formatTime(stored.UpdatedAt), nullString(stored.CreatedBy))
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: tmpl.Name, Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: tmpl.Name, Cause: err}
	}

	writeBack(tmpl, stored)
	return nil
}

// Delete removes all versions of a template by name.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE name = ?", SQLiteTableName), name)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	if rowsAffected == 0 {
		return NewStorageTemplateNotFoundError(name)
	}
	return nil
}

// List returns templates matching the query.
func (s *SQLiteStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s`, storedColumns, SQLiteTableName))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
	}
	defer rows.Close()

	var all []*StoredTemplate
	for rows.Next() {
		tmpl, err := scanStoredTemplate(rows)
		if err != nil {
			return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
		}
		all = append(all, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
	}

	return applyQuery(all, query), nil
}

// Exists checks if a template with the given name exists.
func (s *SQLiteStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE name = ?)", SQLiteTableName), name).Scan(&exists)
	if err != nil {
		return false, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	return exists, nil
}

// ListVersions returns all version numbers for a template.
func (s *SQLiteStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT version FROM %s WHERE name = ? ORDER BY version DESC", SQLiteTableName), name)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	defer rows.Close()

	versions := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	return versions, nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
