package company

import (
	"context"
	"sort"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

type memCompanies struct {
	items map[id.ID]*Company
	locks int
}

func newMemCompanies() *memCompanies {
	return &memCompanies{items: map[id.ID]*Company{}}
}

func (m *memCompanies) Create(ctx context.Context, c *Company) error {
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCompanies) GetByDocument(ctx context.Context, ownerID id.ID, document string) (*Company, error) {
	for _, c := range m.items {
		if c.Document == document && c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("companies", document)
}

func (m *memCompanies) LockByDocument(ctx context.Context, ownerID id.ID, document string) (*Company, error) {
	m.locks++
	return m.GetByDocument(ctx, ownerID, document)
}

func (m *memCompanies) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	for _, c := range m.items {
		if c.Document == document {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCompanies) List(ctx context.Context, ownerID id.ID) ([]*Company, error) {
	var out []*Company
	for _, c := range m.items {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCompanies) Update(ctx context.Context, c *Company) error {
	stored, ok := m.items[c.ID]
	if !ok {
		return apperror.NewNotFound("companies", c.ID.String())
	}
	cp := *c
	cp.MainActivity = stored.MainActivity
	cp.SecondaryActivities = stored.SecondaryActivities
	m.items[c.ID] = &cp
	return nil
}

func (m *memCompanies) SetMainActivity(ctx context.Context, companyID id.ID, main *string) error {
	m.items[companyID].MainActivity = main
	return nil
}

func (m *memCompanies) SetSecondaryActivities(ctx context.Context, companyID id.ID, secondary string) error {
	m.items[companyID].SecondaryActivities = secondary
	return nil
}

func (m *memCompanies) Delete(ctx context.Context, companyID id.ID) error {
	delete(m.items, companyID)
	return nil
}

func (m *memCompanies) IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error) {
	c, ok := m.items[companyID]
	return ok && c.OwnerID == ownerID, nil
}

// memActivities keeps insertion order like an id-ordered table.
type memActivities struct {
	items []*Activity
}

func (m *memActivities) find(activityID id.ID) int {
	for i, a := range m.items {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

func (m *memActivities) Create(ctx context.Context, a *Activity) error {
	cp := *a
	m.items = append(m.items, &cp)
	return nil
}

func (m *memActivities) GetByID(ctx context.Context, activityID id.ID) (*Activity, error) {
	i := m.find(activityID)
	if i < 0 {
		return nil, apperror.NewNotFound("activities", activityID.String())
	}
	cp := *m.items[i]
	return &cp, nil
}

func (m *memActivities) Update(ctx context.Context, a *Activity) error {
	i := m.find(a.ID)
	if i < 0 {
		return apperror.NewNotFound("activities", a.ID.String())
	}
	cp := *a
	m.items[i] = &cp
	return nil
}

func (m *memActivities) Delete(ctx context.Context, activityID id.ID) error {
	i := m.find(activityID)
	if i >= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
	}
	return nil
}

func (m *memActivities) ListByCompany(ctx context.Context, companyID id.ID) ([]*Activity, error) {
	var out []*Activity
	for _, a := range m.items {
		if a.CompanyID == companyID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memActivities) ClearPrincipalExcept(ctx context.Context, companyID, keepID id.ID) error {
	for _, a := range m.items {
		if a.CompanyID == companyID && a.ID != keepID {
			a.IsPrincipal = false
		}
	}
	return nil
}

func (m *memActivities) byDescription(desc string) *Activity {
	for _, a := range m.items {
		if a.Description == desc {
			return a
		}
	}
	return nil
}

type memPartners struct {
	items []*Partner
}

func (m *memPartners) Create(ctx context.Context, p *Partner) error {
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *memPartners) GetByID(ctx context.Context, partnerID id.ID) (*Partner, error) {
	for _, p := range m.items {
		if p.ID == partnerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("partners", partnerID.String())
}

func (m *memPartners) Update(ctx context.Context, p *Partner) error {
	for i, cur := range m.items {
		if cur.ID == p.ID {
			cp := *p
			m.items[i] = &cp
			return nil
		}
	}
	return apperror.NewNotFound("partners", p.ID.String())
}

func (m *memPartners) Delete(ctx context.Context, partnerID id.ID) error {
	for i, p := range m.items {
		if p.ID == partnerID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memPartners) ListByCompany(ctx context.Context, companyID id.ID) ([]*Partner, error) {
	var out []*Partner
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].CompanyID == companyID {
			cp := *m.items[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubRegistry struct {
	profile *Profile
	err     error
	calls   int
}

func (s *stubRegistry) Lookup(ctx context.Context, document string) (*Profile, error) {
	s.calls++
	return s.profile, s.err
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
