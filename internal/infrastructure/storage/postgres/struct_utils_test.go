package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

type sampleRow struct {
	entity.BaseEntity
	Name string `db:"name"`
	entity.Address
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()

	assert.Equal(t, []string{
		"id", "version", "created_at", "updated_at",
		"name",
		"street", "number", "complement", "district", "city", "state", "zip", "country",
	}, cols)
}

func TestStructToMap(t *testing.T) {
	row := sampleRow{
		BaseEntity: entity.BaseEntity{ID: id.New(), Version: 3},
		Name:       "Acme",
		Address:    entity.Address{City: "Recife"},
		Skipped:    "x",
		NoTag:      "y",
	}

	m := StructToMap(&row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "Acme", m["name"])
	assert.Equal(t, "Recife", m["city"])
	assert.Nil(t, m["complement"])
	assert.NotContains(t, m, "Skipped")
	assert.NotContains(t, m, "NoTag")
	assert.Len(t, m, 13)
}

func TestWithoutAndQualify(t *testing.T) {
	m := map[string]any{"id": 1, "name": "a", "version": 2}
	out := Without(m, "id", "version")

	assert.Equal(t, map[string]any{"name": "a"}, out)
	assert.Len(t, m, 3)
	assert.Equal(t, []string{"a.id", "a.name"}, Qualify("a", []string{"id", "name"}))
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "accounts_code_key"}
	wrapped := fmt.Errorf("insert: %w", unique)

	c, ok := UniqueViolation(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "accounts_code_key", c)

	_, ok = ForeignKeyViolation(wrapped)
	assert.False(t, ok)

	c, ok = ForeignKeyViolation(&pgconn.PgError{Code: "23503", ConstraintName: "accounts_parent_id_fkey"})
	assert.True(t, ok)
	assert.Equal(t, "accounts_parent_id_fkey", c)
}
