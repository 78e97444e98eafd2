package balsa

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPostgresConfig(t *testing.T) {
	config := DefaultPostgresConfig()

	assert.Equal(t, PostgresDefaultMaxOpenConns, config.MaxOpenConns)
	assert.Equal(t, PostgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, PostgresDefaultConnMaxLifetime, config.ConnMaxLifetime)
	assert.Equal(t, PostgresDefaultConnMaxIdleTime, config.ConnMaxIdleTime)
	assert.Equal(t, PostgresTablePrefix, config.TablePrefix)
	assert.Equal(t, PostgresDefaultQueryTimeout, config.QueryTimeout)
	assert.False(t, config.AutoMigrate)
	assert.Empty(t, config.ConnectionString)
}

func TestPostgresConfig_WithDefaults(t *testing.T) {
	config := PostgresConfig{
		ConnectionString: "postgres://localhost/test",
		MaxOpenConns:     3,
		TablePrefix:      "custom_",
	}.withDefaults()

	assert.Equal(t, "postgres://localhost/test", config.ConnectionString)
	assert.Equal(t, 3, config.MaxOpenConns)
	assert.Equal(t, "custom_", config.TablePrefix)
	assert.Equal(t, PostgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, PostgresDefaultQueryTimeout, config.QueryTimeout)
}

func TestNewPostgresStorage_EmptyConnectionString(t *testing.T) {
	_, err := NewPostgresStorage(PostgresConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)
}

func TestPostgresStorage_TableNames(t *testing.T) {
	s := &PostgresStorage{config: PostgresConfig{TablePrefix: "app_"}}

	assert.Equal(t, "app_templates", s.tableName())
	assert.Equal(t, "app_schema_migrations", s.migrationsTableName())

	migrations := s.getMigrations()
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS app_templates")
	assert.Contains(t, migrations[0].SQL, "USING GIN(tags)")
}

func TestPostgresStorage_BuildListQuery(t *testing.T) {
	s := &PostgresStorage{config: DefaultPostgresConfig()}

	tests := []struct {
		name     string
		query    *TemplateQuery
		contains []string
		absent   []string
		args     []any
	}{
		{
			name:     "latest versions",
			query:    &TemplateQuery{},
			contains: []string{"DISTINCT ON (name)", "FROM balsa_templates", "ORDER BY name ASC"},
			absent:   []string{"WHERE", "LIMIT", "OFFSET"},
		},
		{
			name:     "all versions",
			query:    &TemplateQuery{IncludeAllVersions: true},
			contains: []string{"ORDER BY name ASC, version DESC"},
			absent:   []string{"DISTINCT ON"},
		},
		{
			name: "filters number placeholders in order",
			query: &TemplateQuery{
				CreatedBy:    "alice",
				NamePrefix:   "email",
				NameContains: "welcome",
				Tags:         []string{"a", "b"},
			},
			contains: []string{
				"created_by = $1",
				"name LIKE $2",
				"name LIKE $3",
				"tags @> $4::jsonb",
				"tags @> $5::jsonb",
			},
			args: []any{"alice", "email%", "%welcome%", `["a"]`, `["b"]`},
		},
		{
			name:     "pagination",
			query:    &TemplateQuery{Limit: 10, Offset: 20},
			contains: []string{"LIMIT 10", "OFFSET 20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlQuery, args := s.buildListQuery(tt.query)
			for _, part := range tt.contains {
				assert.Contains(t, sqlQuery, part)
			}
			for _, part := range tt.absent {
				assert.NotContains(t, sqlQuery, part)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestPostgresStorage_LatestQueryFiltersAfterSelectingLatest(t *testing.T) {
	s := &PostgresStorage{config: DefaultPostgresConfig()}
	sqlQuery, _ := s.buildListQuery(&TemplateQuery{Tags: []string{"x"}})

	distinct := strings.Index(sqlQuery, "DISTINCT ON")
	where := strings.Index(sqlQuery, "WHERE")
	require.True(t, distinct >= 0 && where >= 0)
	assert.Less(t, distinct, where)
}

func TestSQLHelpers(t *testing.T) {
	t.Run("null string", func(t *testing.T) {
		assert.Equal(t, sql.NullString{}, nullString(""))
		assert.Equal(t, sql.NullString{String: "a", Valid: true}, nullString("a"))
	})

	t.Run("time scanning", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)

		var st sqlTime
		require.NoError(t, st.Scan(formatTime(now)))
		assert.True(t, now.Equal(st.Time))

		require.NoError(t, st.Scan([]byte(formatTime(now))))
		assert.True(t, now.Equal(st.Time))

		require.NoError(t, st.Scan(now))
		assert.True(t, now.Equal(st.Time))

		require.NoError(t, st.Scan(now.UnixNano()))
		assert.True(t, now.Equal(st.Time))

		require.NoError(t, st.Scan(nil))
		assert.True(t, st.Time.IsZero())

		assert.Error(t, st.Scan(3.5))
		assert.Error(t, st.Scan("yesterday"))
	})

	t.Run("marshal columns", func(t *testing.T) {
		overrides, metadata, tags, err := marshalColumns(&StoredTemplate{
			Overrides: map[string]any{"a": "b"},
			Tags:      []string{"x"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":"b"}`, string(overrides))
		assert.Equal(t, "null", string(metadata))
		assert.JSONEq(t, `["x"]`, string(tags))
	})
}
