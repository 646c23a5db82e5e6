package company_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/storage/postgres"
)

var _ company.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implements company.ActivityRepository.
type ActivityRepo struct {
	table *postgres.Table[company.Activity]
}

// NewActivityRepo creates the activity repository.
func NewActivityRepo(txManager *postgres.TxManager) *ActivityRepo {
	return &ActivityRepo{table: postgres.NewTable[company.Activity](txManager, "activities", "activity")}
}

func (r *ActivityRepo) Create(ctx context.Context, a *company.Activity) error {
	return r.table.Insert(ctx, a)
}

func (r *ActivityRepo) GetByID(ctx context.Context, activityID id.ID) (*company.Activity, error) {
	return r.table.GetByID(ctx, activityID)
}

func (r *ActivityRepo) Update(ctx context.Context, a *company.Activity) error {
	return r.table.Update(ctx, a, a.ID, &a.Version, "company_id")
}

func (r *ActivityRepo) Delete(ctx context.Context, activityID id.ID) error {
	return r.table.Delete(ctx, activityID)
}

// ListByCompany orders by id; ids are time-ordered so this is insertion order.
func (r *ActivityRepo) ListByCompany(ctx context.Context, companyID id.ID) ([]*company.Activity, error) {
	return r.table.Find(ctx, r.table.Select("").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC"))
}

func (r *ActivityRepo) ClearPrincipalExcept(ctx context.Context, companyID, keepID id.ID) error {
	_, err := r.table.Exec(ctx, clearPrincipal(companyID, keepID))
	return err
}

func clearPrincipal(companyID, keepID id.ID) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update("activities").
		Set("is_principal", false).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"company_id": companyID, "is_principal": true}).
		Where(squirrel.NotEq{"id": keepID})
}
