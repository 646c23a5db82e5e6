// Package chart_repo stores the chart of accounts in PostgreSQL.
package chart_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/chart"
	"backoffice/internal/infrastructure/storage/postgres"
)

const (
	codeConstraint   = "accounts_code_key"
	parentConstraint = "accounts_parent_id_fkey"
)

// subtreeSQL collects an account and everything below it. UNION stops on
// corrupted cycles.
const subtreeSQL = `WITH RECURSIVE subtree AS (
	SELECT id FROM accounts WHERE id = $1
	UNION
	SELECT a.id FROM accounts a JOIN subtree s ON a.parent_id = s.id
)`

var _ chart.Repository = (*AccountRepo)(nil)

// AccountRepo implements chart.Repository.
type AccountRepo struct {
	table *postgres.Table[chart.Account]
}

// NewAccountRepo creates the account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{table: postgres.NewTable[chart.Account](txManager, "accounts", "account")}
}

func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*chart.Account, error) {
	return r.table.GetByID(ctx, accountID)
}

func (r *AccountRepo) ListChildren(ctx context.Context, parentID id.ID) ([]*chart.Account, error) {
	return r.table.Find(ctx, r.table.Select("").
		Where(squirrel.Eq{"parent_id": parentID}).
		OrderBy("code ASC"))
}

func (r *AccountRepo) ListRoots(ctx context.Context, scope chart.Scope) ([]*chart.Account, error) {
	q := r.scoped(scope).Where(squirrel.Eq{"a.parent_id": nil})
	return r.table.Find(ctx, q)
}

func (r *AccountRepo) Search(ctx context.Context, scope chart.Scope, term string) ([]*chart.Account, error) {
	q := r.scoped(scope).
		LeftJoin("accounts p ON p.id = a.parent_id").
		Where(searchCondition(term))
	return r.table.Find(ctx, q)
}

func searchCondition(term string) squirrel.Sqlizer {
	return postgres.Search(term,
		"a.name", "a.code", "a.kind", "a.description",
		"c.document", "c.name", "p.code",
		"a.created_at::text", "a.updated_at::text",
	)
}

// scoped selects accounts of the owner's companies ordered by code.
func (r *AccountRepo) scoped(scope chart.Scope) squirrel.SelectBuilder {
	q := r.table.Select("a").
		Join("companies c ON c.id = a.company_id").
		Where(squirrel.Eq{"c.owner_id": scope.OwnerID}).
		OrderBy("a.code ASC")
	if scope.CompanyID != nil {
		q = q.Where(squirrel.Eq{"a.company_id": *scope.CompanyID})
	}
	return q
}

func (r *AccountRepo) ExistsByCode(ctx context.Context, code string, excludeID *id.ID) (bool, error) {
	where := []squirrel.Sqlizer{squirrel.Eq{"code": code}}
	if excludeID != nil {
		where = append(where, squirrel.NotEq{"id": *excludeID})
	}
	return r.table.Exists(ctx, where...)
}

func (r *AccountRepo) IsDescendant(ctx context.Context, ancestorID, candidateID id.ID) (bool, error) {
	sql := subtreeSQL + ` SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $2 AND id <> $1)`
	var below bool
	if err := r.table.Querier(ctx).QueryRow(ctx, sql, ancestorID, candidateID).Scan(&below); err != nil {
		return false, fmt.Errorf("check descendant: %w", err)
	}
	return below, nil
}

func (r *AccountRepo) Create(ctx context.Context, account *chart.Account) error {
	return r.mapErr(r.table.Insert(ctx, account), account)
}

func (r *AccountRepo) Update(ctx context.Context, account *chart.Account) error {
	return r.mapErr(r.table.Update(ctx, account, account.ID, &account.Version), account)
}

func (r *AccountRepo) DeleteCascade(ctx context.Context, accountID id.ID) (int64, error) {
	sql := subtreeSQL + ` DELETE FROM accounts WHERE id IN (SELECT id FROM subtree)`
	tag, err := r.table.Querier(ctx).Exec(ctx, sql, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete subtree: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, apperror.NewNotFound("account", accountID.String())
	}
	return tag.RowsAffected(), nil
}

// mapErr turns constraint violations that slipped past the service checks
// into the matching business errors.
func (r *AccountRepo) mapErr(err error, account *chart.Account) error {
	if err == nil {
		return nil
	}
	if c, ok := postgres.UniqueViolation(err); ok && c == codeConstraint {
		return apperror.NewDuplicateCode(account.Code)
	}
	if c, ok := postgres.ForeignKeyViolation(err); ok && c == parentConstraint && account.ParentID != nil {
		return apperror.NewParentNotFound(account.ParentID.String())
	}
	return err
}
