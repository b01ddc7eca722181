package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate    *validator.Validate
	fhirIDRegex = regexp.MustCompile(`^[A-Za-z0-9\-\.]{1,64}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("fhir_id", validateFhirID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFhirID(fl validator.FieldLevel) bool {
	return fhirIDRegex.MatchString(fl.Field().String())
}

// IsFhirID reports whether id can be used as a FHIR resource id in a URL path.
func IsFhirID(id string) bool {
	return validate.Var(id, "fhir_id") == nil
}
