package company

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/taxid"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
)

// PartnerService manages the partners of a company.
type PartnerService struct {
	*domain.RecordService[*Partner]
	companies Repository
	repo      PartnerRepository
}

// NewPartnerService creates a partner service.
func NewPartnerService(companies Repository, repo PartnerRepository, txManager tx.Manager) *PartnerService {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Partner]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "partner",
	})
	base.Hooks().OnBeforeCreate(normalizePartner)
	base.Hooks().OnBeforeUpdate(normalizePartner)

	return &PartnerService{
		RecordService: base,
		companies:     companies,
		repo:          repo,
	}
}

// normalizePartner strips the registry mask from the partner tax id.
func normalizePartner(ctx context.Context, p *Partner) error {
	p.TaxID = strings.TrimSpace(strings.ReplaceAll(p.TaxID, "*", ""))
	return nil
}

// List returns the company's partners, newest first.
func (s *PartnerService) List(ctx context.Context, ownerID id.ID, document string) ([]*Partner, error) {
	c, err := s.resolve(ctx, ownerID, document)
	if err != nil {
		return nil, err
	}
	partners, err := s.repo.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// Get returns one partner of the company.
func (s *PartnerService) Get(ctx context.Context, ownerID id.ID, document string, partnerID id.ID) (*Partner, error) {
	c, err := s.resolve(ctx, ownerID, document)
	if err != nil {
		return nil, err
	}
	p, err := s.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != c.ID {
		return nil, apperror.NewNotFound(s.EntityName(), partnerID.String())
	}
	return p, nil
}

// Add attaches a new partner to the company.
func (s *PartnerService) Add(ctx context.Context, ownerID id.ID, document string, p *Partner) error {
	c, err := s.resolve(ctx, ownerID, document)
	if err != nil {
		return err
	}
	if id.IsNil(p.ID) {
		p.BaseEntity = entity.NewBaseEntity()
	}
	p.CompanyID = c.ID
	return s.Create(ctx, p)
}

// Save stores changes to a partner loaded with Get.
func (s *PartnerService) Save(ctx context.Context, ownerID id.ID, document string, p *Partner) error {
	current, err := s.Get(ctx, ownerID, document, p.ID)
	if err != nil {
		return err
	}
	p.CompanyID = current.CompanyID
	p.Touch()
	return s.Update(ctx, p)
}

// Remove deletes a partner of the company.
func (s *PartnerService) Remove(ctx context.Context, ownerID id.ID, document string, partnerID id.ID) error {
	if _, err := s.Get(ctx, ownerID, document, partnerID); err != nil {
		return err
	}
	return s.Delete(ctx, partnerID)
}

func (s *PartnerService) resolve(ctx context.Context, ownerID id.ID, document string) (*Company, error) {
	c, err := s.companies.GetByDocument(ctx, ownerID, taxid.Digits(document))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewCompanyNotFound(document)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}
