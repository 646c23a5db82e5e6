package postgres

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/apperror"
	"backoffice/internal/domain/filter"
)

// Columns maps API-visible column names to qualified SQL expressions.
// Only listed names may appear in filters and ordering.
type Columns map[string]string

// Search ORs a case-insensitive substring match over exprs.
func Search(term string, exprs ...string) squirrel.Sqlizer {
	pattern := "%" + escapeLike(term) + "%"
	or := make(squirrel.Or, 0, len(exprs))
	for _, e := range exprs {
		or = append(or, squirrel.ILike{e: pattern})
	}
	return or
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ApplyFilters appends the ad-hoc conditions, rejecting unknown columns.
func ApplyFilters(q squirrel.SelectBuilder, allowed Columns, items []filter.Item) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		col, ok := allowed[item.Field]
		if !ok {
			return q, apperror.NewValidation(fmt.Sprintf("invalid filter field: %s", item.Field)).
				WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal, filter.InList:
			q = q.Where(squirrel.Eq{col: item.Value})
		case filter.NotEqual, filter.NotInList:
			q = q.Where(squirrel.NotEq{col: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{col: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{col: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{col: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{col: item.Value})
		case filter.Contains:
			q = q.Where(squirrel.ILike{col: fmt.Sprintf("%%%s%%", escapeLike(fmt.Sprint(item.Value)))})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{col: fmt.Sprintf("%%%s%%", escapeLike(fmt.Sprint(item.Value)))})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{col: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{col: nil})
		default:
			return q, apperror.NewValidation(fmt.Sprintf("invalid filter operator: %s", item.Operator)).
				WithDetail("field", item.Field)
		}
	}
	return q, nil
}

// OrderBy turns "name" or "-created_at" into an ORDER BY clause.
// Empty input yields fallback.
func OrderBy(orderBy string, allowed Columns, fallback string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return fallback, nil
	}
	direction := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		orderBy = orderBy[1:]
	}
	col, ok := allowed[orderBy]
	if !ok {
		return "", apperror.NewValidation(fmt.Sprintf("invalid order field: %s", orderBy)).
			WithDetail("field", orderBy)
	}
	return col + " " + direction, nil
}
