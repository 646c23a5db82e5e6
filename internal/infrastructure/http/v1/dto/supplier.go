package dto

import (
	"encoding/json"
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/filter"
	"backoffice/internal/domain/supplier"
)

// SupplierRequest is the body of POST and PUT /suppliers.
type SupplierRequest struct {
	Company  id.ID   `json:"company"`
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Phone    *string `json:"phone"`
	Mobile   *string `json:"mobile"`
	Email    *string `json:"email"`

	AddressRequest

	// Version is required on update
	Version int `json:"version"`
}

// ToEntity converts DTO to a new supplier.
func (r *SupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Company)
	r.apply(s)
	return s
}

// ApplyTo copies the request onto a supplier loaded for update.
func (r *SupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.CompanyID = r.Company
	r.apply(s)
	s.Version = r.Version
}

func (r *SupplierRequest) apply(s *supplier.Supplier) {
	s.Name = strings.TrimSpace(r.Name)
	s.Document = r.Document
	s.Address = r.AddressRequest.toEntity()
	s.Phone = trimOptional(r.Phone)
	s.Mobile = trimOptional(r.Mobile)
	s.Email = trimOptional(r.Email)
}

// SupplierListQuery holds the query parameters of GET /suppliers.
type SupplierListQuery struct {
	PageQuery
	Search  string `form:"q"`
	OrderBy string `form:"orderBy"`

	// Filter is a JSON array of filter.Item
	Filter string `form:"filter"`
}

// ToListFilter converts the query into a domain filter.
func (q *SupplierListQuery) ToListFilter() (domain.ListFilter, error) {
	q.Defaults()
	f := domain.ListFilter{
		Search:  strings.TrimSpace(q.Search),
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if q.Filter != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(q.Filter), &items); err != nil {
			return f, apperror.NewValidation("filter must be a JSON array").WithDetail("error", err.Error())
		}
		f.AdvancedFilters = items
	}
	return f, nil
}
