// Package supplier_repo stores suppliers in PostgreSQL.
package supplier_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/supplier"
	"backoffice/internal/infrastructure/storage/postgres"
)

// listColumns are the fields clients may filter and order by.
var listColumns = postgres.Columns{
	"name":       "s.name",
	"document":   "s.document",
	"city":       "s.city",
	"state":      "s.state",
	"email":      "s.email",
	"company":    "s.company_id",
	"created_at": "s.created_at",
	"updated_at": "s.updated_at",
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	table *postgres.Table[supplier.Supplier]
}

// NewSupplierRepo creates the supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{table: postgres.NewTable[supplier.Supplier](txManager, "suppliers", "supplier")}
}

func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	return mapErr(r.table.Insert(ctx, s), s)
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	return r.table.GetByID(ctx, supplierID)
}

func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	return mapErr(r.table.Update(ctx, s, s.ID, &s.Version), s)
}

// mapErr reports unique violations lost to a concurrent insert as duplicates.
func mapErr(err error, s *supplier.Supplier) error {
	switch c, _ := postgres.UniqueViolation(err); c {
	case "suppliers_document_key":
		return apperror.NewDuplicate("supplier", "document", s.Document)
	case "suppliers_email_lower_key":
		email := ""
		if s.Email != nil {
			email = *s.Email
		}
		return apperror.NewDuplicate("supplier", "email", email)
	}
	return err
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	return r.table.Delete(ctx, supplierID)
}

func (r *SupplierRepo) List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	result := domain.ListResult[*supplier.Supplier]{Limit: filter.Limit, Offset: filter.Offset}

	q, err := r.listQuery(ownerID, filter)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.table.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count suppliers: %w", err)
	}

	order, err := postgres.OrderBy(filter.OrderBy, listColumns, "s.name ASC")
	if err != nil {
		return result, err
	}
	q = q.OrderBy(order, "s.id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	result.Items, err = r.table.Find(ctx, q)
	return result, err
}

func (r *SupplierRepo) listQuery(ownerID id.ID, filter domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.table.Select("s").
		Join("companies c ON c.id = s.company_id").
		Where(squirrel.Eq{"c.owner_id": ownerID})
	if filter.Search != "" {
		q = q.Where(postgres.Search(filter.Search,
			"s.name", "s.document", "s.street", "s.city",
			"c.document", "c.name",
			"s.created_at::text", "s.updated_at::text",
		))
	}
	return postgres.ApplyFilters(q, listColumns, filter.AdvancedFilters)
}

func (r *SupplierRepo) ExistsByDocument(ctx context.Context, document string, excludeID id.ID) (bool, error) {
	return r.table.Exists(ctx, squirrel.Eq{"document": document}, squirrel.NotEq{"id": excludeID})
}

func (r *SupplierRepo) ExistsByEmail(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	return r.table.Exists(ctx, squirrel.Expr("lower(email) = lower(?)", email), squirrel.NotEq{"id": excludeID})
}
