package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/domain/chart"
)

// AccountRequest is the body of POST and PUT /chart-of-accounts.
type AccountRequest struct {
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Kind        chart.Kind `json:"kind"`
	Description string     `json:"description"`
	ParentLink  *id.ID     `json:"parentLink"`
	Company     id.ID      `json:"company"`

	// Version is required on update
	Version int `json:"version"`
}

// ToEntity converts the request into a new account.
func (r *AccountRequest) ToEntity() *chart.Account {
	a := chart.NewAccount(r.Company, r.Code, r.Name, r.Kind)
	a.Description = r.Description
	a.ParentID = r.ParentLink
	return a
}

// ApplyTo copies the request onto an account loaded for update.
func (r *AccountRequest) ApplyTo(a *chart.Account) {
	a.Name = r.Name
	a.Code = r.Code
	a.Kind = r.Kind
	a.Description = r.Description
	a.ParentID = r.ParentLink
	a.CompanyID = r.Company
	a.Version = r.Version
}

// AccountListQuery holds the query parameters of GET /chart-of-accounts.
type AccountListQuery struct {
	Search    string `form:"q"`
	CompanyID string `form:"companyId"`
}

// ToListQuery parses the company filter.
func (q AccountListQuery) ToListQuery() (chart.ListQuery, error) {
	companyID, err := id.ParseOptional(q.CompanyID)
	if err != nil {
		return chart.ListQuery{}, err
	}
	return chart.ListQuery{Search: q.Search, CompanyID: companyID}, nil
}
