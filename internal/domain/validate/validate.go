// Package validate holds the shared struct validator used by entity models.
package validate

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the validate tags on s and reports the first violation.
func Struct(s any) error {
	err := instance.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return errors.Wrapf(storage.ErrInvalidArgument, "field %s violates %q constraint", first.Field(), first.Tag())
	}

	return err
}
