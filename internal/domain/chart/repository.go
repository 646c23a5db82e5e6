package chart

import (
	"context"

	"backoffice/internal/core/id"
)

// Scope restricts listings to the companies of one owner.
type Scope struct {
	OwnerID id.ID

	// CompanyID narrows the listing to a single company when set
	CompanyID *id.ID
}

// ChildSource fetches the direct children of an account.
type ChildSource interface {
	ListChildren(ctx context.Context, parentID id.ID) ([]*Account, error)
}

// Repository is the account store used by the service.
type Repository interface {
	ChildSource

	// GetByID returns apperror NOT_FOUND when missing
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)

	// ListRoots returns accounts without a parent
	ListRoots(ctx context.Context, scope Scope) ([]*Account, error)

	// Search returns every account, root or not, matching term case-insensitively
	// on name, code, kind, description, company document and name, parent code
	// and the textual timestamps
	Search(ctx context.Context, scope Scope, term string) ([]*Account, error)

	// ExistsByCode checks global code uniqueness, ignoring excludeID when set
	ExistsByCode(ctx context.Context, code string, excludeID *id.ID) (bool, error)

	// IsDescendant reports whether candidateID lies in the subtree below ancestorID
	IsDescendant(ctx context.Context, ancestorID, candidateID id.ID) (bool, error)

	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error

	// DeleteCascade removes the account and all its descendants, returning the count
	DeleteCascade(ctx context.Context, accountID id.ID) (int64, error)
}

// CompanyOwnership answers whether a company belongs to a user.
type CompanyOwnership interface {
	IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error)
}
