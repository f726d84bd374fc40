package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/threaddit/backend/pkg/errors"
)

// FromBindError converts a gin binding failure into a ValidationError whose
// field map is keyed by wire names. Payload-level problems go under _schema.
func FromBindError(err error) *apperrors.ValidationError {
	if verr, ok := apperrors.AsValidation(err); ok {
		return verr
	}

	var (
		fieldErrs validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
		sizeErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &fieldErrs):
		out := &apperrors.ValidationError{}
		for _, fe := range fieldErrs {
			out.Add(fe.Field(), Message(fe))
		}
		return out
	case errors.Is(err, io.EOF):
		return apperrors.NewValidationError(apperrors.SchemaField, "No input data provided.")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewValidationError(apperrors.SchemaField, "Invalid input type.")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = apperrors.SchemaField
		}
		return apperrors.NewValidationError(field, "Not a valid "+kindName(typeErr.Type)+".")
	case errors.As(err, &numErr):
		return apperrors.NewValidationError(apperrors.SchemaField, fmt.Sprintf("Not a valid number: %q.", numErr.Num))
	case errors.As(err, &sizeErr):
		return apperrors.NewValidationError(apperrors.SchemaField, "Request body too large.")
	}
	return apperrors.NewValidationError(apperrors.SchemaField, err.Error())
}

// Message renders a single field failure in the forum's wording.
func Message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required", "required_if", "required_without":
		return "Missing data for required field."
	case "email":
		return "Not a valid email address."
	case "url", "http_url":
		return "Not a valid URL."
	case "min", "gte":
		if isString(fe) {
			return fmt.Sprintf("Shorter than minimum length %s.", param)
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", param)
	case "max", "lte":
		if isString(fe) {
			return fmt.Sprintf("Longer than maximum length %s.", param)
		}
		return fmt.Sprintf("Must be less than or equal to %s.", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.Join(strings.Fields(param), ", "))
	case "username":
		return "Username must be 4-15 letters, digits or underscores and not a reserved word."
	case "thread_name":
		return "Thread name must be 3-20 letters, digits or underscores."
	case "password":
		if err := passwordReason(fe); err != "" {
			return err
		}
		return "Password is too weak."
	}
	return "Invalid value."
}

func passwordReason(fe validator.FieldError) string {
	s, ok := fe.Value().(string)
	if !ok {
		return ""
	}
	if err := passwordStrength(s); err != nil {
		return err.Error()
	}
	return ""
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "mapping"
	}
	return "value"
}
