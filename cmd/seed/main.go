// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/chart"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/config"
	"backoffice/internal/infrastructure/objectstore"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/auth_repo"
	"backoffice/internal/infrastructure/storage/postgres/chart_repo"
	"backoffice/internal/infrastructure/storage/postgres/company_repo"
	"backoffice/pkg/logger"
)

type options struct {
	name     string
	email    string
	password string
	demo     bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed an admin user and, optionally, a demo company with a chart of accounts",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "Administrador", "admin display name")
	cmd.Flags().StringVar(&opts.email, "email", envOr("ADMIN_EMAIL", "admin@backoffice.local"), "admin email")
	cmd.Flags().StringVar(&opts.password, "password", envOr("ADMIN_PASSWORD", "Admin123!"), "admin password")
	cmd.Flags().BoolVar(&opts.demo, "demo", os.Getenv("SEED_DEMO_DATA") == "true", "also seed a demo company")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type services struct {
	auth    *auth.Service
	company *company.Service
	chart   *chart.Service
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	ctx = logger.WithLogger(ctx, log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	// seeding never uploads, the store only renders avatar URLs
	avatars, err := objectstore.NewLocalStore(cfg.Storage.LocalDir, cfg.App.PublicURL+"/media/")
	if err != nil {
		return err
	}

	txManager := postgres.NewTxManager(pool)
	companyRepo := company_repo.NewCompanyRepo(txManager)
	svc := services{
		auth: auth.NewService(auth_repo.NewUserRepo(txManager), txManager,
			auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWT.Secret)), avatars, auth.DefaultServiceConfig()),
		company: company.NewService(companyRepo,
			company_repo.NewPartnerRepo(txManager), company_repo.NewActivityRepo(txManager), nil, txManager),
		chart: chart.NewService(chart_repo.NewAccountRepo(txManager), companyRepo, txManager, cfg.Chart.MaxDepth),
	}

	adminID, err := seedAdmin(ctx, svc, opts)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	if opts.demo {
		if err := seedDemo(ctx, svc, adminID); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	log.Info("seeding completed successfully")
	return nil
}

// seedAdmin registers the admin, or signs in when the email is taken.
func seedAdmin(ctx context.Context, svc services, opts options) (id.ID, error) {
	session, err := svc.auth.SignUp(ctx, auth.SignUpRequest{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
	})
	if apperror.HasCode(err, apperror.CodeConflict) {
		session, err = svc.auth.SignIn(ctx, auth.Credentials{Email: opts.email, Password: opts.password})
		if err == nil {
			logger.Info(ctx, "admin user already exists", "email", opts.email)
		}
	}
	if err != nil {
		return id.ID{}, err
	}
	return session.User.ID, nil
}

const demoDocument = "52998224725"

type demoAccount struct {
	code, name, parent string
	kind               chart.Kind
}

// demoChart is a trimmed Brazilian chart of accounts.
var demoChart = []demoAccount{
	{"1", "Ativo", "", chart.KindSynthetic},
	{"1.1", "Ativo Circulante", "1", chart.KindSynthetic},
	{"1.1.01", "Caixa", "1.1", chart.KindAnalytic},
	{"1.1.02", "Bancos Conta Movimento", "1.1", chart.KindAnalytic},
	{"2", "Passivo", "", chart.KindSynthetic},
	{"2.1", "Passivo Circulante", "2", chart.KindSynthetic},
	{"2.1.01", "Fornecedores", "2.1", chart.KindAnalytic},
	{"3", "Resultado", "", chart.KindSynthetic},
	{"3.1", "Receita Bruta", "3", chart.KindAnalytic},
	{"3.9", "Lucro do Exercício", "3", chart.KindAnalytic},
}

func seedDemo(ctx context.Context, svc services, ownerID id.ID) error {
	c, err := svc.company.Resolve(ctx, ownerID, demoDocument)
	if apperror.HasCode(err, apperror.CodeCompanyNotFound) {
		var detail *company.Detail
		detail, err = svc.company.Create(ctx, ownerID, &company.Company{
			DocumentType: company.DocumentPF,
			Document:     demoDocument,
			Name:         "Empresa Demonstração",
			Address: entity.Address{
				Street:   "Rua da Aurora",
				Number:   "100",
				District: "Boa Vista",
				City:     "Recife",
				State:    "PE",
				Zip:      "50050000",
				Country:  "Brasil",
			},
			Phone: "(81) 30000000",
		})
		if err == nil {
			c = detail.Company
		}
	}
	if err != nil {
		return err
	}

	ids := map[string]id.ID{}
	for _, d := range demoChart {
		a := chart.NewAccount(c.ID, d.code, d.name, d.kind)
		a.Description = d.name
		if d.parent != "" {
			parentID, ok := ids[d.parent]
			if !ok {
				continue
			}
			a.ParentID = &parentID
		}

		err := svc.chart.Create(ctx, ownerID, a)
		switch {
		case apperror.HasCode(err, apperror.CodeDuplicateCode):
			logger.Info(ctx, "account already seeded", "code", d.code)
			continue
		case err != nil:
			return fmt.Errorf("create account %s: %w", d.code, err)
		}
		ids[d.code] = a.ID
	}

	logger.Info(ctx, "demo company seeded", "company_id", c.ID, "accounts", len(ids))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
