package supplier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

type memSuppliers struct {
	items      map[id.ID]*Supplier
	lastFilter domain.ListFilter
}

func (m *memSuppliers) Create(ctx context.Context, s *Supplier) error {
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memSuppliers) GetByID(ctx context.Context, v id.ID) (*Supplier, error) {
	s, ok := m.items[v]
	if !ok {
		return nil, apperror.NewNotFound("suppliers", v.String())
	}
	cp := *s
	return &cp, nil
}

func (m *memSuppliers) Update(ctx context.Context, s *Supplier) error {
	cur, ok := m.items[s.ID]
	if !ok {
		return apperror.NewNotFound("suppliers", s.ID.String())
	}
	if cur.Version != s.Version {
		return apperror.NewConcurrentModification("supplier", s.ID.String())
	}
	cp := *s
	cp.Version++
	m.items[s.ID] = &cp
	return nil
}

func (m *memSuppliers) Delete(ctx context.Context, v id.ID) error {
	delete(m.items, v)
	return nil
}

func (m *memSuppliers) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	m.lastFilter = filter
	var out []*Supplier
	for _, s := range m.items {
		if filter.Search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			out = append(out, s)
		}
	}
	return domain.ListResult[*Supplier]{Items: out, TotalCount: int64(len(out)), Limit: filter.Limit}, nil
}

func (m *memSuppliers) ExistsByDocument(ctx context.Context, document string, excludeID id.ID) (bool, error) {
	for _, s := range m.items {
		if s.Document == document && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSuppliers) ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	for _, s := range m.items {
		if s.Email != nil && *s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type owners map[id.ID]id.ID

func (o owners) IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error) {
	got, ok := o[companyID]
	return ok && got == ownerID, nil
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	ctx     context.Context
	owner   id.ID
	company id.ID
	repo    *memSuppliers
	svc     *Service
}

func newFixture() *fixture {
	f := &fixture{ctx: context.Background(), owner: id.New(), company: id.New()}
	f.repo = &memSuppliers{items: map[id.ID]*Supplier{}}
	f.svc = NewService(f.repo, owners{f.company: f.owner}, directTx{})
	return f
}

func strPtr(s string) *string { return &s }

func (f *fixture) supplier(document string) *Supplier {
	s := New(f.company)
	s.Name = "Papelaria Central"
	s.Document = document
	s.Address = entity.Address{
		Street: "Av. Brasil", Number: "100", District: "Centro",
		City: "Curitiba", State: "PR", Zip: "80010-000", Country: "Brasil",
	}
	return s
}

func TestService_AddNormalizesAndStores(t *testing.T) {
	f := newFixture()
	s := f.supplier("11.444.777/0001-61")
	s.Email = strPtr("  Vendas@Central.com.br ")

	require.NoError(t, f.svc.Add(f.ctx, f.owner, s))

	stored := f.repo.items[s.ID]
	assert.Equal(t, "11444777000161", stored.Document)
	assert.Equal(t, "vendas@central.com.br", *stored.Email)
}

func TestService_AddRejectsInvalidDocument(t *testing.T) {
	f := newFixture()

	err := f.svc.Add(f.ctx, f.owner, f.supplier("11444777000162"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidDocument, appErr.Code)
	assert.Empty(t, f.repo.items)
}

func TestService_AddRejectsZipTooLong(t *testing.T) {
	f := newFixture()
	s := f.supplier("52998224725")
	s.Zip = "80010-000-1"

	err := f.svc.Add(f.ctx, f.owner, s)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "zip", appErr.Details["field"])
}

func TestService_AddUniqueness(t *testing.T) {
	f := newFixture()
	first := f.supplier("52998224725")
	first.Email = strPtr("a@b.com")
	require.NoError(t, f.svc.Add(f.ctx, f.owner, first))

	dupDoc := f.supplier("529.982.247-25")
	assert.True(t, apperror.HasCode(f.svc.Add(f.ctx, f.owner, dupDoc), apperror.CodeDuplicate))

	dupEmail := f.supplier("11444777000161")
	dupEmail.Email = strPtr("A@B.com")
	err := f.svc.Add(f.ctx, f.owner, dupEmail)
	require.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "email", appErr.Details["field"])
}

func TestService_AddForeignCompany(t *testing.T) {
	f := newFixture()
	s := f.supplier("52998224725")
	s.CompanyID = id.New()

	assert.True(t, apperror.HasCode(f.svc.Add(f.ctx, f.owner, s), apperror.CodeCompanyNotFound))
}

func TestService_GetHidesOtherOwners(t *testing.T) {
	f := newFixture()
	s := f.supplier("52998224725")
	require.NoError(t, f.svc.Add(f.ctx, f.owner, s))

	_, err := f.svc.Get(f.ctx, id.New(), s.ID)
	assert.True(t, apperror.IsNotFound(err))

	got, err := f.svc.Get(f.ctx, f.owner, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, got.Name)
}

func TestService_SaveChecksVersion(t *testing.T) {
	f := newFixture()
	s := f.supplier("52998224725")
	require.NoError(t, f.svc.Add(f.ctx, f.owner, s))

	a, err := f.svc.Get(f.ctx, f.owner, s.ID)
	require.NoError(t, err)
	b, err := f.svc.Get(f.ctx, f.owner, s.ID)
	require.NoError(t, err)

	a.City = "Londrina"
	require.NoError(t, f.svc.Save(f.ctx, f.owner, a))

	b.City = "Maringá"
	err = f.svc.Save(f.ctx, f.owner, b)
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))
	assert.Equal(t, "Londrina", f.repo.items[s.ID].City)
}

func TestService_RemoveAndList(t *testing.T) {
	f := newFixture()
	s := f.supplier("52998224725")
	require.NoError(t, f.svc.Add(f.ctx, f.owner, s))

	res, err := f.svc.List(f.ctx, f.owner, domain.ListFilter{Search: "  papel ", Limit: 10000})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, "papel", f.repo.lastFilter.Search)
	assert.Equal(t, 50, f.repo.lastFilter.Limit)

	require.NoError(t, f.svc.Remove(f.ctx, f.owner, s.ID))
	assert.Empty(t, f.repo.items)
}
