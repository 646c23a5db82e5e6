package company

import (
	"context"
	"fmt"
	"sort"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/taxid"
	"backoffice/internal/core/tx"
	"backoffice/pkg/logger"
)

// Service manages companies.
type Service struct {
	repo       Repository
	partners   PartnerRepository
	activities ActivityRepository
	registry   Registry
	maintainer *Maintainer
	txManager  tx.Manager
}

// NewService creates a company service.
func NewService(
	repo Repository,
	partners PartnerRepository,
	activities ActivityRepository,
	registry Registry,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		partners:   partners,
		activities: activities,
		registry:   registry,
		maintainer: NewMaintainer(repo, activities),
		txManager:  txManager,
	}
}

// Create registers a company for ownerID.
//
// For PJ only the document is taken from c; everything else comes from the
// registry and is stored together with the listed partners and activities.
// For PF the caller supplies the data and name plus address are required.
func (s *Service) Create(ctx context.Context, ownerID id.ID, c *Company) (*Detail, error) {
	if err := s.checkDocument(c); err != nil {
		return nil, err
	}
	if id.IsNil(c.ID) {
		c.BaseEntity = entity.NewBaseEntity()
	}
	c.OwnerID = ownerID

	exists, err := s.repo.ExistsByDocument(ctx, c.Document)
	if err != nil {
		return nil, fmt.Errorf("check document: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("company", "document", c.Document)
	}

	var (
		partners   []*Partner
		activities []*Activity
	)
	switch c.DocumentType {
	case DocumentPJ:
		profile, err := s.lookup(ctx, c.Document)
		if err != nil {
			return nil, err
		}
		profile.apply(c)
		partners = profile.partners(c.ID)
		activities = profile.activities(c.ID)
	case DocumentPF:
		if missing := c.MissingFields(); len(missing) > 0 {
			return nil, missingFieldsError(missing)
		}
	}
	c.MainActivity = nil
	c.SecondaryActivities = ""

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		for _, p := range partners {
			if err := s.partners.Create(ctx, p); err != nil {
				return fmt.Errorf("create partner: %w", err)
			}
		}
		for _, a := range activities {
			if err := s.activities.Create(ctx, a); err != nil {
				return fmt.Errorf("create activity: %w", err)
			}
		}
		return s.maintainer.Rebuild(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "company created",
		"company_id", c.ID,
		"document_type", c.DocumentType,
		"partners", len(partners),
		"activities", len(activities))

	return s.Get(ctx, ownerID, c.Document)
}

// List returns the companies of ownerID ordered by name.
func (s *Service) List(ctx context.Context, ownerID id.ID) ([]*Company, error) {
	companies, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// Get returns the company with its partners and activities.
func (s *Service) Get(ctx context.Context, ownerID id.ID, document string) (*Detail, error) {
	c, err := s.Resolve(ctx, ownerID, document)
	if err != nil {
		return nil, err
	}

	partners, err := s.partners.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	activities, err := s.activities.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return &Detail{Company: c, Partners: partners, Activities: newestFirst(activities)}, nil
}

// Resolve returns the company identified by document if ownerID owns it.
func (s *Service) Resolve(ctx context.Context, ownerID id.ID, document string) (*Company, error) {
	c, err := s.repo.GetByDocument(ctx, ownerID, taxid.Digits(document))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewCompanyNotFound(document)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update applies patch. Fields required for the company type must stay filled.
func (s *Service) Update(ctx context.Context, ownerID id.ID, document string, patch Patch) (*Detail, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.Resolve(ctx, ownerID, document)
		if err != nil {
			return err
		}

		patch.Apply(c)
		if missing := c.MissingFields(); len(missing) > 0 {
			return missingFieldsError(missing)
		}
		if err := c.Validate(ctx); err != nil {
			return err
		}

		c.Touch()
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update company: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, document)
}

// Delete removes the company and everything that belongs to it.
func (s *Service) Delete(ctx context.Context, ownerID id.ID, document string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.Resolve(ctx, ownerID, document)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete company: %w", err)
		}
		logger.Info(ctx, "company deleted", "company_id", c.ID)
		return nil
	})
}

// IsOwnedBy reports whether ownerID owns the company.
func (s *Service) IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error) {
	return s.repo.IsOwnedBy(ctx, companyID, ownerID)
}

func (s *Service) checkDocument(c *Company) error {
	if c.Document == "" {
		return apperror.NewValidation("document is required").WithDetail("field", "document")
	}
	if c.DocumentType == "" {
		return apperror.NewValidation("document type is required").WithDetail("field", "documentType")
	}

	c.Document = taxid.Digits(c.Document)
	kind, err := taxid.Detect(c.Document)
	if err != nil {
		return apperror.NewInvalidDocument("document", taxid.Reason(err), err)
	}

	switch {
	case c.DocumentType == DocumentPJ && kind == taxid.KindCNPJ,
		c.DocumentType == DocumentPF && kind == taxid.KindCPF:
		return nil
	case c.DocumentType != DocumentPJ && c.DocumentType != DocumentPF:
		return apperror.NewValidation("invalid document type").WithDetail("field", "documentType")
	default:
		return apperror.NewValidation("document does not match document type").
			WithDetail("field", "document").
			WithDetail("documentType", c.DocumentType)
	}
}

func (s *Service) lookup(ctx context.Context, document string) (*Profile, error) {
	profile, err := s.registry.Lookup(ctx, document)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewEnrichmentUnavailable(0, err)
	}
	logger.Info(ctx, "company enriched", "document", document)
	return profile, nil
}

func missingFieldsError(missing []string) error {
	sort.Strings(missing)
	fields := make(map[string]string, len(missing))
	for _, f := range missing {
		fields[f] = "cannot be blank"
	}
	return apperror.NewValidation("required fields are blank").
		WithDetail("fields", fields).
		WithDetail("field", missing[0])
}

// newestFirst reverses insertion order.
func newestFirst[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
