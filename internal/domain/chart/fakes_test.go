package chart

import (
	"context"
	"sort"
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

// memRepo is an in-memory Repository keyed by id.
type memRepo struct {
	accounts        map[id.ID]*Account
	childCalls      int
	descendantCalls int
	companyNames    map[id.ID]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		accounts:     map[id.ID]*Account{},
		companyNames: map[id.ID]string{},
	}
}

func (m *memRepo) sorted(keep func(*Account) bool) []*Account {
	var out []*Account
	for _, a := range m.accounts {
		if keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *memRepo) ListChildren(ctx context.Context, parentID id.ID) ([]*Account, error) {
	m.childCalls++
	return m.sorted(func(a *Account) bool { return a.ParentID != nil && *a.ParentID == parentID }), nil
}

func (m *memRepo) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, apperror.NewNotFound("accounts", accountID.String())
	}
	c := *a
	return &c, nil
}

func (m *memRepo) inScope(a *Account, scope Scope) bool {
	return scope.CompanyID == nil || *scope.CompanyID == a.CompanyID
}

func (m *memRepo) ListRoots(ctx context.Context, scope Scope) ([]*Account, error) {
	return m.sorted(func(a *Account) bool { return a.ParentID == nil && m.inScope(a, scope) }), nil
}

func (m *memRepo) Search(ctx context.Context, scope Scope, term string) ([]*Account, error) {
	term = strings.ToLower(term)
	return m.sorted(func(a *Account) bool {
		if !m.inScope(a, scope) {
			return false
		}
		for _, f := range []string{a.Name, a.Code, string(a.Kind), a.Description, m.companyNames[a.CompanyID]} {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	}), nil
}

func (m *memRepo) ExistsByCode(ctx context.Context, code string, excludeID *id.ID) (bool, error) {
	for _, a := range m.accounts {
		if a.Code == code && (excludeID == nil || a.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) IsDescendant(ctx context.Context, ancestorID, candidateID id.ID) (bool, error) {
	m.descendantCalls++
	seen := map[id.ID]bool{}
	cur, ok := m.accounts[candidateID]
	for ok && cur.ParentID != nil && !seen[cur.ID] {
		seen[cur.ID] = true
		if *cur.ParentID == ancestorID {
			return true, nil
		}
		cur, ok = m.accounts[*cur.ParentID]
	}
	return false, nil
}

func (m *memRepo) Create(ctx context.Context, a *Account) error {
	c := *a
	m.accounts[a.ID] = &c
	return nil
}

func (m *memRepo) Update(ctx context.Context, a *Account) error {
	c := *a
	m.accounts[a.ID] = &c
	return nil
}

func (m *memRepo) DeleteCascade(ctx context.Context, accountID id.ID) (int64, error) {
	if _, ok := m.accounts[accountID]; !ok {
		return 0, apperror.NewNotFound("accounts", accountID.String())
	}
	queue := []id.ID{accountID}
	var removed int64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range m.accounts {
			if a.ParentID != nil && *a.ParentID == cur {
				queue = append(queue, a.ID)
			}
		}
		delete(m.accounts, cur)
		removed++
	}
	return removed, nil
}

// owners maps company id to owner id.
type owners map[id.ID]id.ID

func (o owners) IsOwnedBy(ctx context.Context, companyID, ownerID id.ID) (bool, error) {
	got, ok := o[companyID]
	return ok && got == ownerID, nil
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
