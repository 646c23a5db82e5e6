package company

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Repository stores companies.
type Repository interface {
	Create(ctx context.Context, c *Company) error

	// GetByDocument returns apperror NOT_FOUND unless the company exists and belongs to ownerID
	GetByDocument(ctx context.Context, ownerID id.ID, document string) (*Company, error)

	// LockByDocument is GetByDocument with a row lock held until the transaction ends
	LockByDocument(ctx context.Context, ownerID id.ID, document string) (*Company, error)

	ExistsByDocument(ctx context.Context, document string) (bool, error)
	List(ctx context.Context, ownerID id.ID) ([]*Company, error)

	// Update writes the editable columns with optimistic locking; summary columns are untouched
	Update(ctx context.Context, c *Company) error

	SetMainActivity(ctx context.Context, companyID id.ID, main *string) error
	SetSecondaryActivities(ctx context.Context, companyID id.ID, secondary string) error

	// Delete removes the company; partners, activities, accounts and suppliers cascade
	Delete(ctx context.Context, companyID id.ID) error

	IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error)
}

// PartnerRepository stores partners.
type PartnerRepository interface {
	domain.RecordRepository[*Partner]

	// ListByCompany returns partners newest first
	ListByCompany(ctx context.Context, companyID id.ID) ([]*Partner, error)
}

// ActivityRepository stores activities.
type ActivityRepository interface {
	domain.RecordRepository[*Activity]

	// ListByCompany returns activities in insertion order
	ListByCompany(ctx context.Context, companyID id.ID) ([]*Activity, error)

	// ClearPrincipalExcept unflags every principal activity of the company but keepID
	ClearPrincipalExcept(ctx context.Context, companyID, keepID id.ID) error
}
