package chart_repo

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/chart"
)

func TestScopedQuery(t *testing.T) {
	r := NewAccountRepo(nil)
	owner := id.New()
	company := id.New()

	sql, args, err := r.scoped(chart.Scope{OwnerID: owner, CompanyID: &company}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM accounts a JOIN companies c ON c.id = a.company_id")
	assert.Contains(t, sql, "WHERE c.owner_id = $1 AND a.company_id = $2")
	assert.Contains(t, sql, "ORDER BY a.code ASC")
	assert.Equal(t, []any{owner.String(), company.String()}, args)
}

func TestSearchCondition(t *testing.T) {
	sql, args, err := searchCondition("lucro").ToSql()
	require.NoError(t, err)

	for _, col := range []string{"a.name", "a.kind", "c.document", "p.code", "a.created_at::text"} {
		assert.Contains(t, sql, col+" ILIKE ?")
	}
	assert.Len(t, args, 9)
	assert.Equal(t, "%lucro%", args[0])
}

func TestMapErr(t *testing.T) {
	r := NewAccountRepo(nil)
	parent := id.New()
	a := chart.NewAccount(id.New(), "1.1", "Caixa", chart.KindAnalytic)
	a.ParentID = &parent

	err := r.mapErr(&pgconn.PgError{Code: "23505", ConstraintName: codeConstraint}, a)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateCode))

	err = r.mapErr(&pgconn.PgError{Code: "23503", ConstraintName: parentConstraint}, a)
	assert.True(t, apperror.HasCode(err, apperror.CodeParentNotFound))

	assert.NoError(t, r.mapErr(nil, a))
}
