package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/go-playground/validator/v10"
)

// Error describes the first violated constraint of a request body.
type Error struct {
	Field   string
	Rule    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets callers match any validation failure with
// errors.Is(err, common.ErrValidationFailed).
func (e *Error) Unwrap() error { return common.ErrValidationFailed }

// Validator checks request bodies against the registered schemas. It is
// safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.OrderStatuses, fl.Field().String())
	})
	return &Validator{validate: v}
}

// Decode parses body into a fresh value of the named schema and validates it.
// The returned value is a pointer to the schema's payload type, for example
// *UserPayload for SchemaUser.
func (v *Validator) Decode(name Schema, body []byte) (any, error) {
	newPayload, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	payload := newPayload()

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &Error{Rule: "json", Message: "request body is not valid JSON"}
	}

	if err := v.Struct(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Struct validates an already decoded payload.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Rule: "invalid", Message: err.Error()}
	}
	return fromFieldError(verrs[0])
}

func fromFieldError(fe validator.FieldError) *Error {
	field := fieldPath(fe.Namespace())
	e := &Error{Field: field, Rule: fe.Tag()}

	switch fe.Tag() {
	case "required":
		e.Message = fmt.Sprintf("%q is required", field)
	case "min":
		e.Message = boundMessage(field, fe.Kind(), fe.Param(), "at least", "greater than or equal to")
	case "max":
		e.Message = boundMessage(field, fe.Kind(), fe.Param(), "less than or equal to", "less than or equal to")
	case "email":
		e.Message = fmt.Sprintf("%q must be a valid email", field)
	case "oneof":
		e.Message = fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "orderstatus":
		e.Message = fmt.Sprintf("%q must be one of [%s]", field, strings.Join(models.OrderStatuses, ", "))
	default:
		e.Message = fmt.Sprintf("%q failed on the %q rule", field, fe.Tag())
	}
	return e
}

func boundMessage(field string, kind reflect.Kind, param, lengthWord, valueWord string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("%q length must be %s %s characters long", field, lengthWord, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%q must contain %s %s items", field, lengthWord, param)
	default:
		return fmt.Sprintf("%q must be %s %s", field, valueWord, param)
	}
}

// fieldPath drops the Go type name validator puts in front of a namespace:
// "OrderPayload.products[0].quantity" becomes "products[0].quantity".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func decodeError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "value"
		}
		return &Error{
			Field:   field,
			Rule:    "type",
			Message: fmt.Sprintf("%q must be %s", field, typeName(typeErr.Type)),
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &Error{Rule: "json", Message: "request body is not valid JSON"}
	case errors.Is(err, io.EOF):
		return &Error{Field: "value", Rule: "type", Message: `"value" must be of type object`}
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return &Error{Field: field, Rule: "unknown", Message: fmt.Sprintf("%q is not allowed", field)}
	}
	return &Error{Rule: "json", Message: "request body is not valid JSON"}
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "of type object"
	}
}
