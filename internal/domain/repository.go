// Package domain provides the types shared by every business module.
package domain

import (
	"context"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/filter"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search is a case-insensitive substring matched against searchable fields
	Search string

	// AdvancedFilters are explicit column conditions
	AdvancedFilters []filter.Item

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Record is a persisted entity with an identity and self-validation.
type Record interface {
	entity.Validatable
	GetID() id.ID
}

// RecordRepository defines the CRUD operations shared by simple records.
type RecordRepository[T Record] interface {
	Create(ctx context.Context, entity T) error

	// GetByID returns apperror NOT_FOUND when missing
	GetByID(ctx context.Context, id id.ID) (T, error)

	// Update modifies the record with optimistic locking on version
	Update(ctx context.Context, entity T) error

	// Delete physically removes the record
	Delete(ctx context.Context, id id.ID) error
}
