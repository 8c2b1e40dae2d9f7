// Package validation turns raw request bodies into validated payloads.
//
// Decoding and validation are pure: they see only the body bytes and the
// payload, never the store, so a rejected request cannot reach persistence.
// Failures come back as *errs.HTTPError values with per-field errors the
// client can show next to the form inputs.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/contactform/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by request payload types that know how to
// validate themselves, usually by running validator.Struct on their tags.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a field issue that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// ParseAndValidate decodes raw JSON into payload and validates it.
//
// JSON null fields are left at their zero value. A field of the wrong JSON
// type is rejected rather than coerced.
func ParseAndValidate(raw []byte, payload Validatable) error {
	if err := decode(raw, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return errs.ValidationError(extractValidationError(err))
	}

	return nil
}

// decode binds only keys that exactly match a declared json name.
// encoding/json alone would also bind "NAME" to a field tagged "name".
func decode(raw []byte, payload any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return decodeError(err)
	}

	declared := jsonFieldNames(payload)
	for key := range fields {
		if !declared[key] {
			delete(fields, key)
		}
	}

	exact, err := json.Marshal(fields)
	if err != nil {
		return errs.NewBadRequestError("Invalid JSON body", true, nil, nil)
	}

	if err := json.Unmarshal(exact, payload); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return errs.NewBadRequestError("Request body must be a JSON object", true, nil, nil)
		}
		return errs.ValidationError(extractValidationError(CustomValidationErrors{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be a %s", typeErr.Type.Kind()),
		}}))
	}

	return errs.NewBadRequestError("Invalid JSON body", true, nil, nil)
}

// jsonFieldNames returns the json names of payload's exported fields.
func jsonFieldNames(payload any) map[string]bool {
	t := reflect.TypeOf(payload)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	names := make(map[string]bool)
	if t == nil || t.Kind() != reflect.Struct {
		return names
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		names[name] = true
	}
	return names
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: strings.ToLower(ce.Field),
				Error: ce.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "email":
			msg = "must be a valid email address"

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
	}

	return fieldErrors
}
