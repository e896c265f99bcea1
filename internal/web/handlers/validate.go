package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// validationError carries human readable messages for failed request fields.
type validationError struct {
	messages []string
}

func (e *validationError) Error() string {
	return strings.Join(e.messages, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

// requestValidator returns the shared validator, reporting fields by their json names.
func requestValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		enLoc := en.New()
		translator, _ = ut.New(enLoc, enLoc).GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	})
	return validate, translator
}

// validateRequest checks dst's validate tags. Non-struct values pass.
func validateRequest(dst any) error {
	v, trans := requestValidator()

	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return err
	}

	ve := &validationError{}
	for _, fe := range fieldErrs {
		ve.messages = append(ve.messages, fe.Translate(trans))
	}
	return ve
}

// requestErrorMessage maps a decodeJSON error to the message returned to clients.
func requestErrorMessage(err error) string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return errInvalidRequestBody
}
