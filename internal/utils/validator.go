// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/story-registrar/internal/i18n"
	"github.com/javajoker/story-registrar/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("evm_address", validateEVMAddress)
	validate.RegisterValidation("token_id", validateTokenID)
	validate.RegisterValidation("license_flavor", validateLicenseFlavor)
	validate.RegisterValidation("registration_mode", validateRegistrationMode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateEVMAddress accepts all-lower, all-upper and correctly checksummed addresses.
func validateEVMAddress(fl validator.FieldLevel) bool {
	_, err := models.ParseAddress(fl.Field().String())
	return err == nil
}

func validateTokenID(fl validator.FieldLevel) bool {
	_, err := models.ParseUint256(fl.Field().String())
	return err == nil
}

func validateLicenseFlavor(fl validator.FieldLevel) bool {
	_, err := models.ParseLicenseFlavor(fl.Field().String())
	return err == nil
}

func validateRegistrationMode(fl validator.FieldLevel) bool {
	_, err := models.ParseRegistrationMode(fl.Field().String(), false)
	return err == nil
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error, lang string) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(lang, e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(lang string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return i18n.T(lang, i18n.KeyValidationRequired, e.Field())
	case "max":
		return i18n.T(lang, i18n.KeyValidationTooLong, e.Field(), e.Param())
	case "evm_address":
		return i18n.T(lang, i18n.KeyValidationAddress, e.Field())
	case "token_id":
		return i18n.T(lang, i18n.KeyValidationTokenID, e.Field())
	case "license_flavor":
		return i18n.T(lang, i18n.KeyValidationFlavor, e.Field())
	case "registration_mode":
		return i18n.T(lang, i18n.KeyValidationMode, e.Field())
	default:
		return i18n.T(lang, i18n.KeyValidationInvalid, e.Field())
	}
}
