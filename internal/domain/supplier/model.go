// Package supplier holds the suppliers (fornecedores) of a company.
package supplier

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

// zipMax is wider than a company's zip to allow the formatted "00000-000".
const zipMax = 10

// Supplier is a company's supplier.
type Supplier struct {
	entity.BaseEntity

	CompanyID id.ID  `db:"company_id" json:"company"`
	Name      string `db:"name" json:"name"`

	// Document holds the CPF/CNPJ digits only
	Document string `db:"document" json:"document"`

	entity.Address

	Phone  *string `db:"phone" json:"phone"`
	Mobile *string `db:"mobile" json:"mobile"`
	Email  *string `db:"email" json:"email"`
}

// New creates a supplier with a fresh id.
func New(companyID id.ID) *Supplier {
	return &Supplier{BaseEntity: entity.NewBaseEntity(), CompanyID: companyID}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	rules := []*validation.FieldRules{
		validation.Field(&s.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&s.Document, validation.Required, validation.Length(1, 20)),
		validation.Field(&s.Phone, validation.NilOrNotEmpty, validation.Length(0, 20)),
		validation.Field(&s.Mobile, validation.NilOrNotEmpty, validation.Length(0, 15)),
		validation.Field(&s.Email, validation.NilOrNotEmpty, validation.Length(0, 255), is.EmailFormat),
	}
	rules = append(rules, s.Address.Rules(zipMax)...)
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, s, rules...))
}
