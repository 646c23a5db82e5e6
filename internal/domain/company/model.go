// Package company holds companies with their partners and activities, and
// keeps the company's activity summary in step with its activity rows.
package company

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

// DocumentType tells legal entities (CNPJ) from individuals (CPF).
type DocumentType string

const (
	DocumentPJ DocumentType = "PJ"
	DocumentPF DocumentType = "PF"
)

// Company is an Empresa: a legal entity or an individual owned by one user.
type Company struct {
	entity.BaseEntity

	OwnerID      id.ID        `db:"owner_id" json:"-"`
	DocumentType DocumentType `db:"document_type" json:"documentType"`

	// Document holds the CPF/CNPJ digits only
	Document string `db:"document" json:"document"`

	Name           string           `db:"name" json:"name"`
	TradeName      *string          `db:"trade_name" json:"tradeName"`
	OpenedOn       *time.Time       `db:"opened_on" json:"openedOn"`
	IsHeadquarters bool             `db:"is_headquarters" json:"isHeadquarters"`
	Status         string           `db:"status" json:"status"`
	ShareCapital   *decimal.Decimal `db:"share_capital" json:"shareCapital"`
	Size           string           `db:"size" json:"size"`

	// Summary of the activity rows, maintained by Maintainer only
	MainActivity        *string `db:"main_activity" json:"mainActivity"`
	SecondaryActivities string  `db:"secondary_activities" json:"secondaryActivities"`

	entity.Address

	Phone string  `db:"phone" json:"phone"`
	Email *string `db:"email" json:"email"`
}

var errDocumentType = errors.New("must be 'PJ' or 'PF'")

// Validate checks field shapes. Type-specific required fields are checked by MissingFields.
func (c *Company) Validate(ctx context.Context) error {
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.DocumentType, validation.Required, validation.In(DocumentPJ, DocumentPF).Error(errDocumentType.Error())),
		validation.Field(&c.Document, validation.Required, validation.Length(11, 14)),
		validation.Field(&c.Name, validation.Length(0, 255)),
		validation.Field(&c.TradeName, validation.NilOrNotEmpty, validation.Length(0, 255)),
		validation.Field(&c.Status, validation.Length(0, 100)),
		validation.Field(&c.Size, validation.Length(0, 50)),
		validation.Field(&c.Street, validation.Length(0, 255)),
		validation.Field(&c.Number, validation.Length(0, 20)),
		validation.Field(&c.District, validation.Length(0, 255)),
		validation.Field(&c.City, validation.Length(0, 255)),
		validation.Field(&c.State, validation.Length(0, 2)),
		validation.Field(&c.Zip, validation.Length(0, 8)),
		validation.Field(&c.Country, validation.Length(0, 255)),
		validation.Field(&c.Phone, validation.Length(0, 20)),
		validation.Field(&c.Email, validation.NilOrNotEmpty, is.EmailFormat),
	))
}

// MissingFields lists the fields a company of its type must carry but has blank.
func (c *Company) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if c.DocumentType == DocumentPJ && strings.TrimSpace(c.Status) == "" {
		missing = append(missing, "status")
	}
	return append(missing, c.Address.MissingFields()...)
}

// Patch carries the mutable company fields; nil means unchanged.
// Document, type, share capital and the activity summary cannot be patched.
type Patch struct {
	Name           *string
	TradeName      *string
	OpenedOn       *time.Time
	IsHeadquarters *bool
	Status         *string
	Size           *string
	Street         *string
	Number         *string
	Complement     *string
	District       *string
	City           *string
	State          *string
	Zip            *string
	Country        *string
	Phone          *string
	Email          *string
}

// Apply copies the set fields onto c.
func (p Patch) Apply(c *Company) {
	setString(&c.Name, p.Name)
	setString(&c.Status, p.Status)
	setString(&c.Size, p.Size)
	setString(&c.Street, p.Street)
	setString(&c.Number, p.Number)
	setString(&c.District, p.District)
	setString(&c.City, p.City)
	setString(&c.State, p.State)
	setString(&c.Zip, p.Zip)
	setString(&c.Country, p.Country)
	setString(&c.Phone, p.Phone)
	setOptional(&c.TradeName, p.TradeName)
	setOptional(&c.Complement, p.Complement)
	setOptional(&c.Email, p.Email)
	if p.OpenedOn != nil {
		c.OpenedOn = p.OpenedOn
	}
	if p.IsHeadquarters != nil {
		c.IsHeadquarters = *p.IsHeadquarters
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// setOptional stores nil for an explicitly blank value.
func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		*dst = nil
		return
	}
	*dst = &s
}

// Partner is a Socio of a company.
type Partner struct {
	entity.BaseEntity

	CompanyID id.ID  `db:"company_id" json:"company"`
	Name      string `db:"name" json:"name"`

	// TaxID is the partner CPF as published by the registry, mask characters removed
	TaxID    string     `db:"tax_id" json:"taxId"`
	Role     string     `db:"role" json:"role"`
	JoinedOn *time.Time `db:"joined_on" json:"joinedOn"`
	AgeRange *string    `db:"age_range" json:"ageRange"`
}

// Validate implements entity.Validatable.
func (p *Partner) Validate(ctx context.Context) error {
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.TaxID, validation.Length(0, 18)),
		validation.Field(&p.Role, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.AgeRange, validation.NilOrNotEmpty, validation.Length(0, 20)),
	))
}

// Activity is an economic activity (Atividade) of a company.
type Activity struct {
	entity.BaseEntity

	CompanyID   id.ID  `db:"company_id" json:"company"`
	Description string `db:"description" json:"description"`
	IsPrincipal bool   `db:"is_principal" json:"isPrincipal"`
}

// Validate implements entity.Validatable.
func (a *Activity) Validate(ctx context.Context) error {
	return entity.ValidationError(validation.ValidateStructWithContext(ctx, a,
		validation.Field(&a.Description, validation.Required, validation.Length(1, 255)),
	))
}

// Detail is a company with its partners and activities.
type Detail struct {
	*Company
	Partners   []*Partner  `json:"partners"`
	Activities []*Activity `json:"activities"`
}
