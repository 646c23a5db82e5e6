package dto

import (
	"strings"

	"backoffice/internal/core/entity"
	"backoffice/internal/domain/company"
)

// AddressRequest is the postal address block of companies and suppliers.
type AddressRequest struct {
	Street     string  `json:"street"`
	Number     string  `json:"number"`
	Complement *string `json:"complement"`
	District   string  `json:"district"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Zip        string  `json:"zip"`
	Country    string  `json:"country"`
}

func (r AddressRequest) toEntity() entity.Address {
	return entity.Address{
		Street:     strings.TrimSpace(r.Street),
		Number:     strings.TrimSpace(r.Number),
		Complement: trimOptional(r.Complement),
		District:   strings.TrimSpace(r.District),
		City:       strings.TrimSpace(r.City),
		State:      strings.TrimSpace(r.State),
		Zip:        strings.TrimSpace(r.Zip),
		Country:    strings.TrimSpace(r.Country),
	}
}

// --- Company ---

// CreateCompanyRequest is the body of POST /companies. A PJ only needs the
// document; the remaining fields are read for PF.
type CreateCompanyRequest struct {
	DocumentType company.DocumentType `json:"documentType" binding:"required"`
	Document     string               `json:"document" binding:"required"`

	Name      string  `json:"name"`
	TradeName *string `json:"tradeName"`
	OpenedOn  *Date   `json:"openedOn"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`

	AddressRequest
}

// ToEntity converts DTO to domain entity.
func (r *CreateCompanyRequest) ToEntity() *company.Company {
	return &company.Company{
		DocumentType: company.DocumentType(strings.ToUpper(strings.TrimSpace(string(r.DocumentType)))),
		Document:     r.Document,
		Name:         strings.TrimSpace(r.Name),
		TradeName:    trimOptional(r.TradeName),
		OpenedOn:     r.OpenedOn.TimePtr(),
		Address:      r.AddressRequest.toEntity(),
		Phone:        strings.TrimSpace(r.Phone),
		Email:        trimOptional(r.Email),
	}
}

// UpdateCompanyRequest is the body of PUT /companies/:document. Absent fields
// are left unchanged.
type UpdateCompanyRequest struct {
	Name           *string `json:"name"`
	TradeName      *string `json:"tradeName"`
	OpenedOn       *Date   `json:"openedOn"`
	IsHeadquarters *bool   `json:"isHeadquarters"`
	Status         *string `json:"status"`
	Size           *string `json:"size"`
	Street         *string `json:"street"`
	Number         *string `json:"number"`
	Complement     *string `json:"complement"`
	District       *string `json:"district"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Zip            *string `json:"zip"`
	Country        *string `json:"country"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
}

// ToPatch converts DTO to a company patch.
func (r *UpdateCompanyRequest) ToPatch() company.Patch {
	return company.Patch{
		Name:           r.Name,
		TradeName:      r.TradeName,
		OpenedOn:       r.OpenedOn.TimePtr(),
		IsHeadquarters: r.IsHeadquarters,
		Status:         r.Status,
		Size:           r.Size,
		Street:         r.Street,
		Number:         r.Number,
		Complement:     r.Complement,
		District:       r.District,
		City:           r.City,
		State:          r.State,
		Zip:            r.Zip,
		Country:        r.Country,
		Phone:          r.Phone,
		Email:          r.Email,
	}
}

// --- Activity ---

// ActivityRequest is the body of POST and PUT /companies/:document/activities.
type ActivityRequest struct {
	Description string `json:"description"`
	IsPrincipal bool   `json:"isPrincipal"`
	Version     int    `json:"version"`
}

// ToEntity converts DTO to a new activity.
func (r *ActivityRequest) ToEntity() *company.Activity {
	return &company.Activity{
		Description: strings.TrimSpace(r.Description),
		IsPrincipal: r.IsPrincipal,
	}
}

// ApplyTo copies the request onto an activity loaded for update.
func (r *ActivityRequest) ApplyTo(a *company.Activity) {
	a.Description = strings.TrimSpace(r.Description)
	a.IsPrincipal = r.IsPrincipal
	a.Version = r.Version
}

// --- Partner ---

// PartnerRequest is the body of POST and PUT /companies/:document/partners.
type PartnerRequest struct {
	Name     string  `json:"name"`
	TaxID    string  `json:"taxId"`
	Role     string  `json:"role"`
	JoinedOn *Date   `json:"joinedOn"`
	AgeRange *string `json:"ageRange"`
	Version  int     `json:"version"`
}

// ToEntity converts DTO to a new partner.
func (r *PartnerRequest) ToEntity() *company.Partner {
	p := &company.Partner{}
	r.apply(p)
	return p
}

// ApplyTo copies the request onto a partner loaded for update.
func (r *PartnerRequest) ApplyTo(p *company.Partner) {
	r.apply(p)
	p.Version = r.Version
}

func (r *PartnerRequest) apply(p *company.Partner) {
	p.Name = strings.TrimSpace(r.Name)
	p.TaxID = strings.ReplaceAll(strings.TrimSpace(r.TaxID), "*", "")
	p.Role = strings.TrimSpace(r.Role)
	p.JoinedOn = r.JoinedOn.TimePtr()
	p.AgeRange = trimOptional(r.AgeRange)
}

// trimOptional trims v and maps blank to nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
