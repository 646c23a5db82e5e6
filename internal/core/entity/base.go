package entity

import (
	"context"
	"time"

	"backoffice/internal/core/id"
)

// Validatable is implemented by entities that check their own invariants.
// Validation never touches the database.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity contains the fields shared by every persisted record.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID and timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes UpdatedAt. The version is bumped by the repository.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// GetID returns the record id.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}
