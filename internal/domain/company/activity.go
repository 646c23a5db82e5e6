package company

import (
	"context"
	"fmt"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/taxid"
	"backoffice/internal/core/tx"
)

// ActivityService manages the activities of a company. Every mutation locks
// the company row and refreshes its activity summary in the same transaction.
type ActivityService struct {
	companies  Repository
	repo       ActivityRepository
	maintainer *Maintainer
	txManager  tx.Manager
}

// NewActivityService creates an activity service.
func NewActivityService(companies Repository, repo ActivityRepository, txManager tx.Manager) *ActivityService {
	return &ActivityService{
		companies:  companies,
		repo:       repo,
		maintainer: NewMaintainer(companies, repo),
		txManager:  txManager,
	}
}

// List returns the company's activities, newest first.
func (s *ActivityService) List(ctx context.Context, ownerID id.ID, document string) ([]*Activity, error) {
	c, err := s.resolve(ctx, ownerID, document, false)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return newestFirst(activities), nil
}

// Get returns one activity of the company.
func (s *ActivityService) Get(ctx context.Context, ownerID id.ID, document string, activityID id.ID) (*Activity, error) {
	c, err := s.resolve(ctx, ownerID, document, false)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, c, activityID)
}

// Create adds an activity to the company.
func (s *ActivityService) Create(ctx context.Context, ownerID id.ID, document string, a *Activity) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.resolve(ctx, ownerID, document, true)
		if err != nil {
			return err
		}

		if id.IsNil(a.ID) {
			a.BaseEntity = entity.NewBaseEntity()
		}
		a.CompanyID = c.ID
		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("create activity: %w", err)
		}
		return s.maintainer.AfterCreate(ctx, a)
	})
}

// Update stores changes to description or principal flag.
func (s *ActivityService) Update(ctx context.Context, ownerID id.ID, document string, a *Activity) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.resolve(ctx, ownerID, document, true)
		if err != nil {
			return err
		}
		prev, err := s.load(ctx, c, a.ID)
		if err != nil {
			return err
		}

		a.CompanyID = c.ID
		a.Touch()
		if err := s.repo.Update(ctx, a); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}
		return s.maintainer.AfterUpdate(ctx, a, prev.IsPrincipal)
	})
}

// Delete removes an activity.
func (s *ActivityService) Delete(ctx context.Context, ownerID id.ID, document string, activityID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.resolve(ctx, ownerID, document, true)
		if err != nil {
			return err
		}
		a, err := s.load(ctx, c, activityID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return s.maintainer.AfterDelete(ctx, a)
	})
}

func (s *ActivityService) resolve(ctx context.Context, ownerID id.ID, document string, lock bool) (*Company, error) {
	get := s.companies.GetByDocument
	if lock {
		get = s.companies.LockByDocument
	}
	c, err := get(ctx, ownerID, taxid.Digits(document))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewCompanyNotFound(document)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func (s *ActivityService) load(ctx context.Context, c *Company, activityID id.ID) (*Activity, error) {
	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("activity", activityID.String())
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if a.CompanyID != c.ID {
		return nil, apperror.NewNotFound("activity", activityID.String())
	}
	return a, nil
}
