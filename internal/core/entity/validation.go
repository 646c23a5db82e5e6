// Package entity provides the building blocks shared by domain records.
package entity

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"backoffice/internal/core/apperror"
)

// ValidationError converts an ozzo-validation result into an AppError.
// Field errors end up under details.fields keyed by the JSON field name.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewValidation(err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for name, fe := range fieldErrs {
		fields[name] = fe.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	return apperror.NewValidation("validation failed").
		WithDetail("fields", fields).
		WithDetail("field", names[0])
}
