package supplier

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Repository stores suppliers.
type Repository interface {
	domain.RecordRepository[*Supplier]

	// List returns suppliers of companies owned by ownerID. filter.Search matches
	// name, document, street, city, company document and name, and the timestamps.
	List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*Supplier], error)

	ExistsByDocument(ctx context.Context, document string, excludeID id.ID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error)
}

// CompanyOwnership answers whether a company belongs to a user.
type CompanyOwnership interface {
	IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error)
}
