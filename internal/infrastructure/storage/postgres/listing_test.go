package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/domain/filter"
)

var testColumns = Columns{
	"name": "s.name",
	"city": "s.city",
}

func TestSearch_EscapesWildcards(t *testing.T) {
	sql, args, err := Builder().Select("1").From("suppliers s").
		Where(Search("50%_off", "s.name", "s.city")).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1 FROM suppliers s WHERE (s.name ILIKE $1 OR s.city ILIKE $2)", sql)
	assert.Equal(t, []any{`%50\%\_off%`, `%50\%\_off%`}, args)
}

func TestApplyFilters(t *testing.T) {
	q, err := ApplyFilters(Builder().Select("1").From("suppliers s"), testColumns, []filter.Item{
		{Field: "city", Operator: filter.Equal, Value: "Recife"},
		{Field: "name", Operator: filter.IsNotNull},
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM suppliers s WHERE s.city = $1 AND s.name IS NOT NULL", sql)
	assert.Equal(t, []any{"Recife"}, args)
}

func TestApplyFilters_UnknownField(t *testing.T) {
	_, err := ApplyFilters(Builder().Select("1").From("suppliers s"), testColumns, []filter.Item{
		{Field: "password", Operator: filter.Equal, Value: "x"},
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestOrderBy(t *testing.T) {
	got, err := OrderBy("-city", testColumns, "s.name ASC")
	require.NoError(t, err)
	assert.Equal(t, "s.city DESC", got)

	got, err = OrderBy("", testColumns, "s.name ASC")
	require.NoError(t, err)
	assert.Equal(t, "s.name ASC", got)

	_, err = OrderBy("name; DROP TABLE x", testColumns, "")
	assert.Error(t, err)
}
