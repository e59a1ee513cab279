// Package impl contains the implementation of the application's business logic.
package impl

import (
	"strings"

	domainerrors "crm/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// newValidator builds the validator instance shared by the services.
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateInput checks a request struct against its tags and converts the
// failures into one domain validation error listing every offending field.
// Services call this before touching any repository.
func validateInput(validate *validator.Validate, input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return domainerrors.NewValidationError(err.Error())
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, fieldError.Field()+" failed on "+fieldError.Tag())
	}

	return domainerrors.NewValidationError(strings.Join(details, "; "))
}
