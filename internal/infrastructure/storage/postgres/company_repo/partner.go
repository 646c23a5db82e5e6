package company_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/storage/postgres"
)

var _ company.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implements company.PartnerRepository.
type PartnerRepo struct {
	table *postgres.Table[company.Partner]
}

// NewPartnerRepo creates the partner repository.
func NewPartnerRepo(txManager *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{table: postgres.NewTable[company.Partner](txManager, "partners", "partner")}
}

func (r *PartnerRepo) Create(ctx context.Context, p *company.Partner) error {
	return r.table.Insert(ctx, p)
}

func (r *PartnerRepo) GetByID(ctx context.Context, partnerID id.ID) (*company.Partner, error) {
	return r.table.GetByID(ctx, partnerID)
}

func (r *PartnerRepo) Update(ctx context.Context, p *company.Partner) error {
	return r.table.Update(ctx, p, p.ID, &p.Version, "company_id")
}

func (r *PartnerRepo) Delete(ctx context.Context, partnerID id.ID) error {
	return r.table.Delete(ctx, partnerID)
}

func (r *PartnerRepo) ListByCompany(ctx context.Context, companyID id.ID) ([]*company.Partner, error) {
	return r.table.Find(ctx, r.table.Select("").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("created_at DESC", "id DESC"))
}
