package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Table carries the CRUD plumbing shared by single-table repositories.
// E is the row struct; its "db" tags name the columns.
type Table[E any] struct {
	tx     *TxManager
	name   string
	entity string
	cols   []string
}

// NewTable creates a table helper. entity names the record in NOT_FOUND errors.
func NewTable[E any](txManager *TxManager, name, entity string) *Table[E] {
	return &Table[E]{
		tx:     txManager,
		name:   name,
		entity: entity,
		cols:   ExtractDBColumns[E](),
	}
}

// Name returns the table name.
func (t *Table[E]) Name() string { return t.name }

// Columns returns the selected columns, unqualified.
func (t *Table[E]) Columns() []string { return t.cols }

// Querier returns the transaction in ctx or the pool.
func (t *Table[E]) Querier(ctx context.Context) Querier {
	return t.tx.GetQuerier(ctx)
}

// Select starts a SELECT of every column. A non-empty alias qualifies them.
func (t *Table[E]) Select(alias string) squirrel.SelectBuilder {
	if alias == "" {
		return Builder().Select(t.cols...).From(t.name)
	}
	return Builder().Select(Qualify(alias, t.cols)...).From(t.name + " " + alias)
}

// Insert writes every mapped column of row.
func (t *Table[E]) Insert(ctx context.Context, row *E) error {
	data := StructToMap(row)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %T", row)
	}
	sql, args, err := Builder().Insert(t.name).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

// Update writes row's columns except id, version, created_at and skip,
// guarded by the version the caller loaded. On success *version holds the new value.
func (t *Table[E]) Update(ctx context.Context, row *E, rowID id.ID, version *int, skip ...string) error {
	data := Without(StructToMap(row), append([]string{"id", "version", "created_at"}, skip...)...)
	q := Builder().
		Update(t.name).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rowID, "version": *version}).
		Suffix("RETURNING version")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var next int
	if err := t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewConcurrentModification(t.entity, rowID.String())
		}
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	*version = next
	return nil
}

// GetByID returns the row or apperror NOT_FOUND.
func (t *Table[E]) GetByID(ctx context.Context, rowID id.ID) (*E, error) {
	return t.Get(ctx, t.Select("").Where(squirrel.Eq{"id": rowID}).Limit(1), rowID.String())
}

// Get runs q expecting one row; ref identifies it in the NOT_FOUND error.
func (t *Table[E]) Get(ctx context.Context, q squirrel.SelectBuilder, ref string) (*E, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	row := new(E)
	if err := pgxscan.Get(ctx, t.Querier(ctx), row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(t.entity, ref)
		}
		return nil, fmt.Errorf("get %s: %w", t.entity, err)
	}
	return row, nil
}

// Find runs q and scans every row. The result is never nil.
func (t *Table[E]) Find(ctx context.Context, q squirrel.SelectBuilder) ([]*E, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows := []*E{}
	if err := pgxscan.Select(ctx, t.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return rows, nil
}

// Exists reports whether the conditions match any row.
func (t *Table[E]) Exists(ctx context.Context, where ...squirrel.Sqlizer) (bool, error) {
	inner := Builder().Select("1").From(t.name)
	for _, w := range where {
		inner = inner.Where(w)
	}
	sql, args, err := Builder().Select().Column(squirrel.Expr("EXISTS (?)", inner)).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	var exists bool
	if err := t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", t.name, err)
	}
	return exists, nil
}

// Exec runs a statement and returns the affected row count.
func (t *Table[E]) Exec(ctx context.Context, q squirrel.Sqlizer) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	tag, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("exec on %s: %w", t.name, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes one row by id; apperror NOT_FOUND when nothing was removed.
func (t *Table[E]) Delete(ctx context.Context, rowID id.ID) error {
	n, err := t.Exec(ctx, Builder().Delete(t.name).Where(squirrel.Eq{"id": rowID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(t.entity, rowID.String())
	}
	return nil
}
