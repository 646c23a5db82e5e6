package chart

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/tx"
	"backoffice/pkg/logger"
)

// ListQuery selects accounts for the list endpoint.
type ListQuery struct {
	// Search switches to search mode when non-blank
	Search    string
	CompanyID *id.ID
}

// Service maintains the chart of accounts.
type Service struct {
	repo      Repository
	companies CompanyOwnership
	txManager tx.Manager
	maxDepth  int
}

// NewService creates a chart service. maxDepth <= 0 falls back to DefaultMaxDepth.
func NewService(repo Repository, companies CompanyOwnership, txManager tx.Manager, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Service{
		repo:      repo,
		companies: companies,
		txManager: txManager,
		maxDepth:  maxDepth,
	}
}

// MaxDepth returns the configured rendering depth.
func (s *Service) MaxDepth() int {
	return s.maxDepth
}

// Create validates and stores a new account owned by ownerID's company.
func (s *Service) Create(ctx context.Context, ownerID id.ID, account *Account) error {
	if err := account.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireCompany(ctx, account.CompanyID, ownerID); err != nil {
			return err
		}
		if err := s.checkParent(ctx, ownerID, account, false); err != nil {
			return err
		}
		if err := s.checkCode(ctx, account.Code, nil); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account created", "account_id", account.ID, "code", account.Code)
	return nil
}

// Get returns an account visible to ownerID.
func (s *Service) Get(ctx context.Context, ownerID, accountID id.ID) (*Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, s.normalizeGetErr(err, accountID)
	}
	owned, err := s.companies.IsOwnedBy(ctx, account.CompanyID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check company owner: %w", err)
	}
	if !owned {
		return nil, apperror.NewNotFound("account", accountID.String())
	}
	return account, nil
}

// Update persists changes to an account previously loaded with Get.
// Any field except the id may change; the code stays globally unique and the
// new parent may not be the account itself or one of its descendants.
func (s *Service) Update(ctx context.Context, ownerID id.ID, account *Account) error {
	if err := account.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, ownerID, account.ID); err != nil {
			return err
		}
		if err := s.requireCompany(ctx, account.CompanyID, ownerID); err != nil {
			return err
		}
		if err := s.checkParent(ctx, ownerID, account, true); err != nil {
			return err
		}
		if err := s.checkCode(ctx, account.Code, &account.ID); err != nil {
			return err
		}

		account.Touch()
		if err := s.repo.Update(ctx, account); err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		return nil
	})
}

// Delete removes the account and its whole subtree. It returns how many
// records were removed.
func (s *Service) Delete(ctx context.Context, ownerID, accountID id.ID) (int64, error) {
	var removed int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, ownerID, accountID); err != nil {
			return err
		}
		n, err := s.repo.DeleteCascade(ctx, accountID)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "account deleted", "account_id", accountID, "removed", removed)
	return removed, nil
}

// ListRoots renders the chart for the list endpoint.
//
// Without a search term only root accounts are returned. With one, every
// matching account is returned, each rendered as its own tree starting at
// depth 0 with no ancestor context.
func (s *Service) ListRoots(ctx context.Context, ownerID id.ID, q ListQuery) ([]Detail, error) {
	scope := Scope{OwnerID: ownerID, CompanyID: q.CompanyID}

	var (
		accounts []*Account
		err      error
	)
	if term := strings.TrimSpace(q.Search); term != "" {
		accounts, err = s.repo.Search(ctx, scope, term)
	} else {
		accounts, err = s.repo.ListRoots(ctx, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var src ChildSource = s.repo
	if q.CompanyID != nil {
		src = companyChildren{src: s.repo, companyID: *q.CompanyID}
	}
	return Render(ctx, src, accounts, s.maxDepth)
}

// RenderTree loads the given roots and renders them at most maxDepth levels deep.
func (s *Service) RenderTree(ctx context.Context, rootIDs []id.ID, maxDepth int) ([]Detail, error) {
	roots := make([]*Account, 0, len(rootIDs))
	for _, rootID := range rootIDs {
		a, err := s.repo.GetByID(ctx, rootID)
		if err != nil {
			return nil, s.normalizeGetErr(err, rootID)
		}
		roots = append(roots, a)
	}
	return Render(ctx, s.repo, roots, maxDepth)
}

func (s *Service) requireCompany(ctx context.Context, companyID, ownerID id.ID) error {
	owned, err := s.companies.IsOwnedBy(ctx, companyID, ownerID)
	if err != nil {
		return fmt.Errorf("check company owner: %w", err)
	}
	if !owned {
		return apperror.NewCompanyNotFound(companyID.String())
	}
	return nil
}

// checkParent verifies the parent link exists and is visible to the owner.
// For stored accounts it also rejects links that would close a cycle; a new
// account has no descendants yet.
func (s *Service) checkParent(ctx context.Context, ownerID id.ID, account *Account, stored bool) error {
	if account.ParentID == nil {
		return nil
	}
	parentID := *account.ParentID
	if parentID == account.ID {
		return apperror.NewParentCycle(account.ID.String(), parentID.String())
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewParentNotFound(parentID.String())
		}
		return fmt.Errorf("load parent: %w", err)
	}
	owned, err := s.companies.IsOwnedBy(ctx, parent.CompanyID, ownerID)
	if err != nil {
		return fmt.Errorf("check parent company owner: %w", err)
	}
	if !owned {
		return apperror.NewParentNotFound(parentID.String())
	}
	if !stored {
		return nil
	}

	below, err := s.repo.IsDescendant(ctx, account.ID, parentID)
	if err != nil {
		return fmt.Errorf("check parent cycle: %w", err)
	}
	if below {
		return apperror.NewParentCycle(account.ID.String(), parentID.String())
	}
	return nil
}

func (s *Service) checkCode(ctx context.Context, code string, excludeID *id.ID) error {
	taken, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if taken {
		return apperror.NewDuplicateCode(code)
	}
	return nil
}

func (s *Service) normalizeGetErr(err error, accountID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("account", accountID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("id", accountID.String())
}
