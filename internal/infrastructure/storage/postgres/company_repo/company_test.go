package company_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/id"
)

func TestLockByDocumentQuery(t *testing.T) {
	r := NewCompanyRepo(nil)
	owner := id.New()

	sql, args, err := byDocument(r.table, owner, "11222333000181").Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM companies WHERE document = $1 AND owner_id = $2 LIMIT 1 FOR UPDATE")
	assert.Equal(t, []any{"11222333000181", owner.String()}, args)
}

func TestClearPrincipalQuery(t *testing.T) {
	company, keep := id.New(), id.New()

	sql, args, err := clearPrincipal(company, keep).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE activities SET is_principal = $1, version = version + 1, updated_at = $2")
	assert.Contains(t, sql, "WHERE company_id = $3 AND is_principal = $4 AND id <> $5")
	assert.Equal(t, false, args[0])
	assert.Equal(t, company.String(), args[2])
	assert.Equal(t, keep.String(), args[4])
}

func TestSummaryColumnsNotInUpdate(t *testing.T) {
	r := NewCompanyRepo(nil)
	cols := r.table.Columns()

	for _, c := range summaryColumns {
		assert.Contains(t, cols, c)
	}
	assert.Contains(t, cols, "street")
	assert.Contains(t, cols, "created_at")
}
