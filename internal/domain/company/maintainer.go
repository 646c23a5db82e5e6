package company

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/core/id"
	"backoffice/pkg/logger"
)

// secondarySeparator joins secondary activity descriptions.
const secondarySeparator = ", "

// SummaryWriter updates the activity summary columns of a company.
type SummaryWriter interface {
	SetMainActivity(ctx context.Context, companyID id.ID, main *string) error
	SetSecondaryActivities(ctx context.Context, companyID id.ID, secondary string) error
}

// ActivitySource is the activity access the Maintainer needs.
type ActivitySource interface {
	ListByCompany(ctx context.Context, companyID id.ID) ([]*Activity, error)
	ClearPrincipalExcept(ctx context.Context, companyID, keepID id.ID) error
}

// Maintainer keeps Company.MainActivity and Company.SecondaryActivities derived
// from the company's activity rows. Callers run it inside the transaction of the
// activity mutation that triggered it.
type Maintainer struct {
	companies  SummaryWriter
	activities ActivitySource
}

// NewMaintainer creates a Maintainer.
func NewMaintainer(companies SummaryWriter, activities ActivitySource) *Maintainer {
	return &Maintainer{companies: companies, activities: activities}
}

// SetPrincipal makes a the only principal activity of its company, copies its
// description to the main activity and rebuilds the secondary list.
func (m *Maintainer) SetPrincipal(ctx context.Context, a *Activity) error {
	if err := m.activities.ClearPrincipalExcept(ctx, a.CompanyID, a.ID); err != nil {
		return fmt.Errorf("clear principal activities: %w", err)
	}
	a.IsPrincipal = true

	main := a.Description
	if err := m.companies.SetMainActivity(ctx, a.CompanyID, &main); err != nil {
		return fmt.Errorf("set main activity: %w", err)
	}

	logger.Info(ctx, "principal activity changed", "company_id", a.CompanyID, "activity_id", a.ID)
	return m.RecomputeSecondary(ctx, a.CompanyID)
}

// RecomputeSecondary rebuilds only the secondary list.
func (m *Maintainer) RecomputeSecondary(ctx context.Context, companyID id.ID) error {
	activities, err := m.activities.ListByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}

	descriptions := make([]string, 0, len(activities))
	for _, a := range activities {
		if !a.IsPrincipal {
			descriptions = append(descriptions, a.Description)
		}
	}

	if err := m.companies.SetSecondaryActivities(ctx, companyID, strings.Join(descriptions, secondarySeparator)); err != nil {
		return fmt.Errorf("set secondary activities: %w", err)
	}
	return nil
}

// AfterCreate runs after a new activity is stored.
func (m *Maintainer) AfterCreate(ctx context.Context, a *Activity) error {
	if a.IsPrincipal {
		return m.SetPrincipal(ctx, a)
	}
	return m.RecomputeSecondary(ctx, a.CompanyID)
}

// AfterUpdate runs after an activity is stored; wasPrincipal is the flag before the update.
func (m *Maintainer) AfterUpdate(ctx context.Context, a *Activity, wasPrincipal bool) error {
	if a.IsPrincipal {
		return m.SetPrincipal(ctx, a)
	}
	if wasPrincipal {
		if err := m.reelect(ctx, a.CompanyID); err != nil {
			return err
		}
	}
	return m.RecomputeSecondary(ctx, a.CompanyID)
}

// AfterDelete runs after an activity is removed.
func (m *Maintainer) AfterDelete(ctx context.Context, a *Activity) error {
	if a.IsPrincipal {
		if err := m.reelect(ctx, a.CompanyID); err != nil {
			return err
		}
	}
	return m.RecomputeSecondary(ctx, a.CompanyID)
}

// Rebuild derives both summary fields from scratch, as after a bulk import.
func (m *Maintainer) Rebuild(ctx context.Context, companyID id.ID) error {
	if err := m.reelect(ctx, companyID); err != nil {
		return err
	}
	return m.RecomputeSecondary(ctx, companyID)
}

// reelect points the main activity at the first remaining principal activity, or clears it.
func (m *Maintainer) reelect(ctx context.Context, companyID id.ID) error {
	activities, err := m.activities.ListByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}

	var main *string
	for _, a := range activities {
		if a.IsPrincipal {
			desc := a.Description
			main = &desc
			break
		}
	}

	if err := m.companies.SetMainActivity(ctx, companyID, main); err != nil {
		return fmt.Errorf("set main activity: %w", err)
	}
	return nil
}
