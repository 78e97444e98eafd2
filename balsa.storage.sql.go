package balsa

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQL storage error messages shared by the sqlite and postgres drivers
const (
	ErrMsgSQLMarshalFailed   = "failed to encode template column"
	ErrMsgSQLUnmarshalFailed = "failed to decode template column"
)

// storedColumns lists the template columns in scan order.
const storedColumns = "id, name, source, version, overrides, metadata, tags, created_at, updated_at, created_by"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// storedRow holds the raw column values of one template version.
type storedRow struct {
	id            string
	name          string
	source        string
	version       int
	overridesJSON []byte
	metadataJSON  []byte
	tagsJSON      []byte
	createdAt     sqlTime
	updatedAt     sqlTime
	createdBy     sql.NullString
}

// scanStoredTemplate scans one row and decodes its JSON columns.
func scanStoredTemplate(row rowScanner) (*StoredTemplate, error) {
	var r storedRow
	err := row.Scan(&r.id, &r.name, &r.source, &r.version,
		&r.overridesJSON, &r.metadataJSON, &r.tagsJSON,
		&r.createdAt, &r.updatedAt, &r.createdBy)
	if err != nil {
		return nil, err
	}
	return r.toTemplate()
}

// toTemplate converts scanned values into a StoredTemplate.
func (r *storedRow) toTemplate() (*StoredTemplate, error) {
	tmpl := &StoredTemplate{
		ID:        r.id,
		Name:      r.name,
		Source:    r.source,
		Version:   r.version,
		CreatedAt: r.createdAt.Time,
		UpdatedAt: r.updatedAt.Time,
	}

	if err := unmarshalColumn(r.overridesJSON, &tmpl.Overrides); err != nil {
		return nil, fmt.Errorf("%s: overrides: %w", ErrMsgSQLUnmarshalFailed, err)
	}
	if err := unmarshalColumn(r.metadataJSON, &tmpl.Metadata); err != nil {
		return nil, fmt.Errorf("%s: metadata: %w", ErrMsgSQLUnmarshalFailed, err)
	}
	if err := unmarshalColumn(r.tagsJSON, &tmpl.Tags); err != nil {
		return nil, fmt.Errorf("%s: tags: %w", ErrMsgSQLUnmarshalFailed, err)
	}

	if r.createdBy.Valid {
		tmpl.CreatedBy = r.createdBy.String
	}
	return tmpl, nil
}

// unmarshalColumn decodes a JSON column, leaving dst untouched for NULL.
func unmarshalColumn(data []byte, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// marshalColumns encodes the JSON columns of tmpl.
func marshalColumns(tmpl *StoredTemplate) (overrides, metadata, tags []byte, err error) {
	if overrides, err = json.Marshal(tmpl.Overrides); err != nil {
		return nil, nil, nil, err
	}
	if metadata, err = json.Marshal(tmpl.Metadata); err != nil {
		return nil, nil, nil, err
	}
	if tags, err = json.Marshal(tmpl.Tags); err != nil {
		return nil, nil, nil, err
	}
	return overrides, metadata, tags, nil
}

// sqlTime scans timestamps stored natively or as text.
type sqlTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case int64:
		t.Time = time.Unix(0, v).UTC()
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (t *sqlTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// formatTime encodes a timestamp for text columns.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullString converts an empty string to sql.NullString.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
