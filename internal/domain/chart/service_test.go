package chart

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

type fixture struct {
	svc     *Service
	repo    *memRepo
	owned   owners
	owner   id.ID
	company id.ID
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemRepo()
	owner, company := id.New(), id.New()
	owned := owners{company: owner}
	return &fixture{
		svc:     NewService(repo, owned, directTx{}, 0),
		repo:    repo,
		owned:   owned,
		owner:   owner,
		company: company,
		ctx:     context.Background(),
	}
}

func (f *fixture) add(t *testing.T, code, name string, parent *Account) *Account {
	t.Helper()
	a := NewAccount(f.company, code, name, KindSynthetic)
	a.Description = name
	if parent != nil {
		a.ParentID = &parent.ID
	}
	require.NoError(t, f.svc.Create(f.ctx, f.owner, a))
	return a
}

func TestService_DefaultMaxDepth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 10, f.svc.MaxDepth())
}

func TestService_CreateDuplicateCodeUnderDifferentParents(t *testing.T) {
	f := newFixture(t)
	assets := f.add(t, "1", "Assets", nil)
	liabilities := f.add(t, "2", "Liabilities", nil)
	f.add(t, "1.01", "Cash", assets)

	dup := NewAccount(f.company, "1.01", "Loans", KindAnalytic)
	dup.Description = "Loans"
	dup.ParentID = &liabilities.ID

	err := f.svc.Create(f.ctx, f.owner, dup)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateCode))
	assert.Len(t, f.repo.accounts, 3)
}

func TestService_CreateParentNotFound(t *testing.T) {
	f := newFixture(t)
	missing := id.New()
	a := NewAccount(f.company, "9", "Orphan", KindAnalytic)
	a.Description = "x"
	a.ParentID = &missing

	err := f.svc.Create(f.ctx, f.owner, a)
	assert.True(t, apperror.HasCode(err, apperror.CodeParentNotFound))
}

func TestService_CreateForeignCompany(t *testing.T) {
	f := newFixture(t)
	a := NewAccount(id.New(), "1", "Assets", KindSynthetic)
	a.Description = "x"

	err := f.svc.Create(f.ctx, f.owner, a)
	assert.True(t, apperror.HasCode(err, apperror.CodeCompanyNotFound))
}

func TestService_CreateRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	a := NewAccount(f.company, "1", "Assets", Kind("X"))
	a.Description = "x"

	err := f.svc.Create(f.ctx, f.owner, a)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details["fields"], "kind")
}

func TestService_UpdateKeepsOwnCodeAndRejectsTakenCode(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "1", "Assets", nil)
	f.add(t, "2", "Liabilities", nil)

	loaded, err := f.svc.Get(f.ctx, f.owner, a.ID)
	require.NoError(t, err)
	loaded.Name = "Assets (renamed)"
	require.NoError(t, f.svc.Update(f.ctx, f.owner, loaded))
	assert.Equal(t, "Assets (renamed)", f.repo.accounts[a.ID].Name)

	loaded.Code = "2"
	err = f.svc.Update(f.ctx, f.owner, loaded)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateCode))
}

func TestService_UpdateRejectsCycles(t *testing.T) {
	f := newFixture(t)
	root := f.add(t, "1", "Root", nil)
	child := f.add(t, "1.1", "Child", root)
	grandchild := f.add(t, "1.1.1", "Grandchild", child)

	loaded, err := f.svc.Get(f.ctx, f.owner, root.ID)
	require.NoError(t, err)

	loaded.ParentID = &grandchild.ID
	err = f.svc.Update(f.ctx, f.owner, loaded)
	assert.True(t, apperror.HasCode(err, apperror.CodeParentCycle))

	loaded.ParentID = &root.ID
	err = f.svc.Update(f.ctx, f.owner, loaded)
	assert.True(t, apperror.HasCode(err, apperror.CodeParentCycle))

	assert.Nil(t, f.repo.accounts[root.ID].ParentID)
}

func TestService_DeleteCascadesToAllDescendants(t *testing.T) {
	f := newFixture(t)
	root := f.add(t, "1", "Root", nil)
	other := f.add(t, "2", "Other", nil)
	for i := 1; i <= 2; i++ {
		child := f.add(t, fmt.Sprintf("1.%d", i), "Child", root)
		for j := 1; j <= 2; j++ {
			f.add(t, fmt.Sprintf("1.%d.%d", i, j), "Grandchild", child)
		}
	}
	require.Len(t, f.repo.accounts, 8)

	removed, err := f.svc.Delete(f.ctx, f.owner, root.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 7, removed)
	assert.Len(t, f.repo.accounts, 1)
	assert.Contains(t, f.repo.accounts, other.ID)
}

func TestService_DeleteHiddenFromOtherOwners(t *testing.T) {
	f := newFixture(t)
	root := f.add(t, "1", "Root", nil)

	_, err := f.svc.Delete(f.ctx, id.New(), root.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Len(t, f.repo.accounts, 1)
}

func TestService_ListRootsWithoutSearch(t *testing.T) {
	f := newFixture(t)
	root := f.add(t, "1", "Root", nil)
	f.add(t, "1.1", "Child", root)
	f.add(t, "2", "Second", nil)

	views, err := f.svc.ListRoots(f.ctx, f.owner, ListQuery{})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "1", views[0].Code)
	require.Len(t, views[0].Children, 1)
	assert.Equal(t, "1.1", views[0].Children[0].Code)
	assert.Equal(t, "2", views[1].Code)
	assert.NotNil(t, views[1].Children)
	assert.Empty(t, views[1].Children)
}

func TestService_ListRootsSearchReturnsMatchesAtAnyLevel(t *testing.T) {
	f := newFixture(t)
	result := f.add(t, "3", "Resultado", nil)
	profit := f.add(t, "3.1", "Lucro bruto", result)
	f.add(t, "3.1.1", "Receita", profit)
	f.add(t, "3.2", "Prejuízo", result)
	f.add(t, "4", "LUCRO acumulado", nil)

	views, err := f.svc.ListRoots(f.ctx, f.owner, ListQuery{Search: "lucro"})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "3.1", views[0].Code)
	assert.Equal(t, &result.ID, views[0].ParentLink)
	require.Len(t, views[0].Children, 1)
	assert.Equal(t, "3.1.1", views[0].Children[0].Code)
	assert.Equal(t, "4", views[1].Code)
}

func TestService_RenderTreeUnknownRoot(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RenderTree(f.ctx, []id.ID{id.New()}, 3)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_CreateSkipsCycleLookup(t *testing.T) {
	f := newFixture(t)
	root := f.add(t, "1", "Root", nil)
	f.add(t, "1.1", "Child", root)
	assert.Zero(t, f.repo.descendantCalls)

	loaded, err := f.svc.Get(f.ctx, f.owner, root.ID)
	require.NoError(t, err)
	other := f.add(t, "2", "Other", nil)
	loaded.ParentID = &other.ID
	require.NoError(t, f.svc.Update(f.ctx, f.owner, loaded))
	assert.Equal(t, 1, f.repo.descendantCalls)
}

func TestService_ListRootsCompanyFilterAppliesToChildren(t *testing.T) {
	f := newFixture(t)
	branch := id.New()
	f.owned[branch] = f.owner

	root := f.add(t, "1", "Root", nil)
	f.add(t, "1.1", "Own child", root)
	foreign := NewAccount(branch, "1.2", "Branch child", KindAnalytic)
	foreign.Description = "Branch child"
	foreign.ParentID = &root.ID
	require.NoError(t, f.svc.Create(f.ctx, f.owner, foreign))

	views, err := f.svc.ListRoots(f.ctx, f.owner, ListQuery{CompanyID: &f.company})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Children, 1)
	assert.Equal(t, "1.1", views[0].Children[0].Code)

	views, err = f.svc.ListRoots(f.ctx, f.owner, ListQuery{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Children, 2)
}
