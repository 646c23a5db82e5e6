package company

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
)

// Registry looks a CNPJ up in an external company registry.
// Failures are reported as apperror ENRICHMENT_UNAVAILABLE.
type Registry interface {
	Lookup(ctx context.Context, document string) (*Profile, error)
}

// Profile is the company data published by the registry.
type Profile struct {
	TaxID          string           `json:"taxId"`
	Name           string           `json:"name"`
	Alias          *string          `json:"alias,omitempty"`
	Founded        *time.Time       `json:"founded,omitempty"`
	Head           bool             `json:"head"`
	Status         string           `json:"status"`
	Equity         *decimal.Decimal `json:"equity,omitempty"`
	Size           string           `json:"size"`
	MainActivity   *string          `json:"mainActivity,omitempty"`
	SideActivities []string         `json:"sideActivities"`
	Address        entity.Address   `json:"address"`
	Phone          string           `json:"phone"`
	Email          *string          `json:"email,omitempty"`
	Members        []Member         `json:"members"`
}

// Member is a partner listed by the registry.
type Member struct {
	Name     string     `json:"name"`
	TaxID    string     `json:"taxId"`
	Role     string     `json:"role"`
	Since    *time.Time `json:"since,omitempty"`
	AgeRange *string    `json:"ageRange,omitempty"`
}

// apply fills c from the profile. The document stays the one requested.
func (p *Profile) apply(c *Company) {
	c.DocumentType = DocumentPJ
	c.Name = p.Name
	c.TradeName = p.Alias
	c.OpenedOn = p.Founded
	c.IsHeadquarters = p.Head
	c.Status = p.Status
	c.ShareCapital = p.Equity
	c.Size = p.Size
	c.Address = p.Address
	c.Phone = p.Phone
	c.Email = p.Email
}

func (p *Profile) partners(companyID id.ID) []*Partner {
	out := make([]*Partner, 0, len(p.Members))
	for _, m := range p.Members {
		out = append(out, &Partner{
			BaseEntity: entity.NewBaseEntity(),
			CompanyID:  companyID,
			Name:       m.Name,
			TaxID:      m.TaxID,
			Role:       m.Role,
			JoinedOn:   m.Since,
			AgeRange:   m.AgeRange,
		})
	}
	return out
}

// activities lists the main activity first, flagged principal.
func (p *Profile) activities(companyID id.ID) []*Activity {
	out := make([]*Activity, 0, len(p.SideActivities)+1)
	if p.MainActivity != nil {
		out = append(out, &Activity{
			BaseEntity:  entity.NewBaseEntity(),
			CompanyID:   companyID,
			Description: *p.MainActivity,
			IsPrincipal: true,
		})
	}
	for _, side := range p.SideActivities {
		out = append(out, &Activity{
			BaseEntity:  entity.NewBaseEntity(),
			CompanyID:   companyID,
			Description: side,
		})
	}
	return out
}
