package supplier

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/taxid"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
)

// Service manages suppliers. Every operation is scoped to companies owned by the caller.
type Service struct {
	*domain.RecordService[*Supplier]
	repo      Repository
	companies CompanyOwnership
}

// NewService creates a supplier service.
func NewService(repo Repository, companies CompanyOwnership, txManager tx.Manager) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		RecordService: base,
		repo:          repo,
		companies:     companies,
	}

	base.Hooks().OnBeforeCreate(svc.checkUnique)
	base.Hooks().OnBeforeUpdate(svc.checkUnique)

	return svc
}

// Add creates a supplier under one of ownerID's companies.
func (s *Service) Add(ctx context.Context, ownerID id.ID, sup *Supplier) error {
	if err := s.prepare(ctx, ownerID, sup); err != nil {
		return err
	}
	return s.Create(ctx, sup)
}

// Get returns a supplier of one of ownerID's companies.
func (s *Service) Get(ctx context.Context, ownerID, supplierID id.ID) (*Supplier, error) {
	sup, err := s.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	owned, err := s.companies.IsOwnedBy(ctx, sup.CompanyID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check company owner: %w", err)
	}
	if !owned {
		return nil, apperror.NewNotFound(s.EntityName(), supplierID.String())
	}
	return sup, nil
}

// Save stores changes to a supplier loaded with Get. The version guards
// against concurrent edits.
func (s *Service) Save(ctx context.Context, ownerID id.ID, sup *Supplier) error {
	if _, err := s.Get(ctx, ownerID, sup.ID); err != nil {
		return err
	}
	if err := s.prepare(ctx, ownerID, sup); err != nil {
		return err
	}
	sup.Touch()
	return s.Update(ctx, sup)
}

// Remove deletes a supplier.
func (s *Service) Remove(ctx context.Context, ownerID, supplierID id.ID) error {
	if _, err := s.Get(ctx, ownerID, supplierID); err != nil {
		return err
	}
	return s.Delete(ctx, supplierID)
}

// List returns a page of ownerID's suppliers.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = domain.DefaultListFilter().Limit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)

	result, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return result, fmt.Errorf("list suppliers: %w", err)
	}
	return result, nil
}

// prepare normalizes the document and checks the target company.
func (s *Service) prepare(ctx context.Context, ownerID id.ID, sup *Supplier) error {
	if err := taxid.Validate(sup.Document); err != nil {
		return apperror.NewInvalidDocument("document", taxid.Reason(err), err)
	}
	sup.Document = taxid.Digits(sup.Document)
	if sup.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*sup.Email))
		sup.Email = &email
		if email == "" {
			sup.Email = nil
		}
	}

	owned, err := s.companies.IsOwnedBy(ctx, sup.CompanyID, ownerID)
	if err != nil {
		return fmt.Errorf("check company owner: %w", err)
	}
	if !owned {
		return apperror.NewCompanyNotFound(sup.CompanyID.String())
	}
	return nil
}

func (s *Service) checkUnique(ctx context.Context, sup *Supplier) error {
	taken, err := s.repo.ExistsByDocument(ctx, sup.Document, sup.ID)
	if err != nil {
		return fmt.Errorf("check supplier document: %w", err)
	}
	if taken {
		return apperror.NewDuplicate(s.EntityName(), "document", sup.Document)
	}

	if sup.Email == nil {
		return nil
	}
	taken, err = s.repo.ExistsByEmail(ctx, *sup.Email, sup.ID)
	if err != nil {
		return fmt.Errorf("check supplier email: %w", err)
	}
	if taken {
		return apperror.NewDuplicate(s.EntityName(), "email", *sup.Email)
	}
	return nil
}
