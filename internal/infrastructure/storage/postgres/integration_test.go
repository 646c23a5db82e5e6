//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/chart"
	"backoffice/internal/domain/company"
	"backoffice/internal/domain/supplier"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/auth_repo"
	"backoffice/internal/infrastructure/storage/postgres/chart_repo"
	"backoffice/internal/infrastructure/storage/postgres/company_repo"
	"backoffice/internal/infrastructure/storage/postgres/supplier_repo"
)

type stack struct {
	tx        *postgres.TxManager
	users     *auth_repo.UserRepo
	companies *company_repo.CompanyRepo
	chart     *chart.Service
	activity  *company.ActivityService
	company   *company.Service
	suppliers *supplier.Service
}

func setupDatabase(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := postgres.NewMigrator(dsn, "../../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, migrator.Close())

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	txm := postgres.NewTxManager(pool)
	companies := company_repo.NewCompanyRepo(txm)
	activities := company_repo.NewActivityRepo(txm)
	partners := company_repo.NewPartnerRepo(txm)

	return &stack{
		tx:        txm,
		users:     auth_repo.NewUserRepo(txm),
		companies: companies,
		chart:     chart.NewService(chart_repo.NewAccountRepo(txm), companies, txm, 0),
		activity:  company.NewActivityService(companies, activities, txm),
		company:   company.NewService(companies, partners, activities, nil, txm),
		suppliers: supplier.NewService(supplier_repo.NewSupplierRepo(txm), companies, txm),
	}
}

func (s *stack) seedOwner(t *testing.T, ctx context.Context) (id.ID, *company.Detail) {
	t.Helper()
	user := auth.NewUser("Ana", "ana@example.com", "hash")
	require.NoError(t, s.users.Create(ctx, user))

	detail, err := s.company.Create(ctx, user.ID, &company.Company{
		DocumentType: company.DocumentPF,
		Document:     "529.982.247-25",
		Name:         "Ana Souza",
		Address: entity.Address{
			Street: "Rua A", Number: "10", District: "Boa Vista",
			City: "Recife", State: "PE", Zip: "50000000", Country: "Brasil",
		},
	})
	require.NoError(t, err)
	return user.ID, detail
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := setupDatabase(t)
	ctx := context.Background()
	owner, detail := s.seedOwner(t, ctx)

	t.Run("user email is case-insensitive", func(t *testing.T) {
		u, err := s.users.GetByEmail(ctx, "ANA@example.com")
		require.NoError(t, err)
		assert.Equal(t, owner, u.ID)

		require.NoError(t, s.users.TouchLastAccess(ctx, owner, time.Now().UTC()))
		u, err = s.users.GetByID(ctx, owner)
		require.NoError(t, err)
		assert.NotNil(t, u.LastAccess)
	})

	t.Run("chart cascade and search", func(t *testing.T) {
		root := chart.NewAccount(detail.ID, "1", "Ativo", chart.KindSynthetic)
		root.Description = "ativo total"
		require.NoError(t, s.chart.Create(ctx, owner, root))

		child := chart.NewAccount(detail.ID, "1.1", "Caixa", chart.KindAnalytic)
		child.Description = "caixa geral"
		child.ParentID = &root.ID
		require.NoError(t, s.chart.Create(ctx, owner, child))

		dup := chart.NewAccount(detail.ID, "1.1", "Outro", chart.KindAnalytic)
		dup.Description = "x"
		err := s.chart.Create(ctx, owner, dup)
		assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateCode))

		roots, err := s.chart.ListRoots(ctx, owner, chart.ListQuery{})
		require.NoError(t, err)
		require.Len(t, roots, 1)
		require.Len(t, roots[0].Children, 1)
		assert.Equal(t, "1.1", roots[0].Children[0].Code)

		found, err := s.chart.ListRoots(ctx, owner, chart.ListQuery{Search: "CAIXA"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "1.1", found[0].Code)

		root.ParentID = &child.ID
		err = s.chart.Update(ctx, owner, root)
		assert.True(t, apperror.HasCode(err, apperror.CodeParentCycle))

		removed, err := s.chart.Delete(ctx, owner, root.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, removed)
	})

	t.Run("principal activity is kept on the company", func(t *testing.T) {
		doc := detail.Document
		first := &company.Activity{Description: "Comércio varejista", IsPrincipal: true}
		require.NoError(t, s.activity.Create(ctx, owner, doc, first))
		second := &company.Activity{Description: "Consultoria", IsPrincipal: true}
		require.NoError(t, s.activity.Create(ctx, owner, doc, second))

		got, err := s.company.Get(ctx, owner, doc)
		require.NoError(t, err)
		require.NotNil(t, got.MainActivity)
		assert.Equal(t, "Consultoria", *got.MainActivity)
		assert.Equal(t, "Comércio varejista", got.SecondaryActivities)

		reloaded, err := s.activity.Get(ctx, owner, doc, first.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.IsPrincipal)
	})

	t.Run("supplier listing is scoped to the owner", func(t *testing.T) {
		sup := supplier.New(detail.ID)
		sup.Name = "Distribuidora Recife"
		sup.Document = "11.222.333/0001-81"
		sup.Address = entity.Address{
			Street: "Av. Norte", Number: "100", District: "Espinheiro",
			City: "Recife", State: "PE", Zip: "52020-000", Country: "Brasil",
		}
		require.NoError(t, s.suppliers.Add(ctx, owner, sup))

		page, err := s.suppliers.List(ctx, owner, domain.ListFilter{Search: "recife", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.TotalCount)

		page, err = s.suppliers.List(ctx, id.New(), domain.ListFilter{Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, page.TotalCount)
	})

	t.Run("deleting the company cascades", func(t *testing.T) {
		require.NoError(t, s.company.Delete(ctx, owner, detail.Document))
		_, err := s.companies.GetByDocument(ctx, owner, detail.Document)
		assert.True(t, apperror.IsNotFound(err))
	})
}
