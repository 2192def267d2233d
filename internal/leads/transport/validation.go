package transport

import (
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations adds the lead-specific tags used by the request DTOs:
// leadstatus accepts a known status, statusfilter additionally accepts "all".
func RegisterValidations(v *validator.Validator) error {
	if err := v.RegisterValidation("leadstatus", func(fl playground.FieldLevel) bool {
		_, ok := domain.ParseStatus(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("statusfilter", func(fl playground.FieldLevel) bool {
		return domain.IsStatusFilter(fl.Field().String())
	})
}
