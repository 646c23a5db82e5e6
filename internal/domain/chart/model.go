// Package chart implements the chart of accounts: a forest of accounts linked
// through an optional parent, rendered as depth-bounded nested views.
package chart

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

// Kind labels an account as a posting (analytic) or grouping (synthetic) account.
// It is a convention only; either kind may have children.
type Kind string

const (
	KindAnalytic  Kind = "A"
	KindSynthetic Kind = "S"
)

// Account is one node of the chart of accounts.
type Account struct {
	entity.BaseEntity

	CompanyID   id.ID  `db:"company_id" json:"company"`
	Name        string `db:"name" json:"name"`
	Code        string `db:"code" json:"code"`
	Kind        Kind   `db:"kind" json:"kind"`
	Description string `db:"description" json:"description"`

	// ParentID is the "vinculo" link; nil for root accounts
	ParentID *id.ID `db:"parent_id" json:"parentLink"`
}

// NewAccount creates an account with a fresh id.
func NewAccount(companyID id.ID, code, name string, kind Kind) *Account {
	return &Account{
		BaseEntity: entity.NewBaseEntity(),
		CompanyID:  companyID,
		Code:       code,
		Name:       name,
		Kind:       kind,
	}
}

var errKind = errors.New("kind accepts only 'A' (analytic) or 'S' (synthetic)")

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, a,
		validation.Field(&a.CompanyID, validation.By(requiredID)),
		validation.Field(&a.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.Code, validation.Required, validation.Length(1, 20)),
		validation.Field(&a.Kind, validation.Required, validation.In(KindAnalytic, KindSynthetic).Error(errKind.Error())),
		validation.Field(&a.Description, validation.Required),
	))
}

// IsRoot reports whether the account has no parent.
func (a *Account) IsRoot() bool {
	return a.ParentID == nil
}

func requiredID(value any) error {
	v, _ := value.(id.ID)
	if id.IsNil(v) {
		return errors.New("cannot be blank")
	}
	return nil
}
