// Package dto defines request/response payloads for the HTTP layer and
// validates requests with struct tags.
package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into a
// validation error carrying per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	details := map[string]any{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("invalid request payload", details)
}
