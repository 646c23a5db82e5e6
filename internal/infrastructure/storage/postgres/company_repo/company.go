// Package company_repo stores companies, their partners and activities in PostgreSQL.
package company_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/storage/postgres"
)

const documentConstraint = "companies_document_key"

// summaryColumns are written only through SetMainActivity and SetSecondaryActivities.
var summaryColumns = []string{"main_activity", "secondary_activities"}

var _ company.Repository = (*CompanyRepo)(nil)

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	table *postgres.Table[company.Company]
}

// NewCompanyRepo creates the company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{table: postgres.NewTable[company.Company](txManager, "companies", "company")}
}

func (r *CompanyRepo) Create(ctx context.Context, c *company.Company) error {
	err := r.table.Insert(ctx, c)
	if cons, ok := postgres.UniqueViolation(err); ok && cons == documentConstraint {
		return apperror.NewDuplicate("company", "document", c.Document)
	}
	return err
}

func (r *CompanyRepo) GetByDocument(ctx context.Context, ownerID id.ID, document string) (*company.Company, error) {
	return r.table.Get(ctx, byDocument(r.table, ownerID, document), document)
}

func (r *CompanyRepo) LockByDocument(ctx context.Context, ownerID id.ID, document string) (*company.Company, error) {
	return r.table.Get(ctx, byDocument(r.table, ownerID, document).Suffix("FOR UPDATE"), document)
}

func byDocument(t *postgres.Table[company.Company], ownerID id.ID, document string) squirrel.SelectBuilder {
	return t.Select("").
		Where(squirrel.Eq{"owner_id": ownerID, "document": document}).
		Limit(1)
}

func (r *CompanyRepo) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	return r.table.Exists(ctx, squirrel.Eq{"document": document})
}

func (r *CompanyRepo) List(ctx context.Context, ownerID id.ID) ([]*company.Company, error) {
	return r.table.Find(ctx, r.table.Select("").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name ASC", "id ASC"))
}

func (r *CompanyRepo) Update(ctx context.Context, c *company.Company) error {
	skip := append([]string{"owner_id", "document", "document_type"}, summaryColumns...)
	return r.table.Update(ctx, c, c.ID, &c.Version, skip...)
}

func (r *CompanyRepo) SetMainActivity(ctx context.Context, companyID id.ID, main *string) error {
	return r.setSummary(ctx, companyID, "main_activity", main)
}

func (r *CompanyRepo) SetSecondaryActivities(ctx context.Context, companyID id.ID, secondary string) error {
	return r.setSummary(ctx, companyID, "secondary_activities", secondary)
}

func (r *CompanyRepo) setSummary(ctx context.Context, companyID id.ID, column string, value any) error {
	n, err := r.table.Exec(ctx, postgres.Builder().
		Update(r.table.Name()).
		Set(column, value).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": companyID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("company", companyID.String())
	}
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, companyID id.ID) error {
	return r.table.Delete(ctx, companyID)
}

func (r *CompanyRepo) IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error) {
	return r.table.Exists(ctx, squirrel.Eq{"id": companyID, "owner_id": ownerID})
}
