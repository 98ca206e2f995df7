package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names so messages match the wire payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Decode unmarshals a single entity and validates it.
func Decode[T any](entity string, data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Entity: entity, Err: err}
	}
	if err := validateValue(&out); err != nil {
		return out, &DecodeError{Entity: entity, Err: err}
	}
	return out, nil
}

// DecodeList unmarshals a list of entities and validates every element.
// A top-level {"data": [...]} envelope is unwrapped. A JSON null decodes to
// an empty list.
func DecodeList[T any](entity string, data []byte) ([]T, error) {
	data = unwrapEnvelope(data)
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{Entity: entity, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	for i := range out {
		if err := validateValue(&out[i]); err != nil {
			return nil, &DecodeError{Entity: entity, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return out, nil
}

// Validate checks an outbound payload against its struct tags. Failures wrap ErrInvalid.
func Validate(v any) error {
	if err := validateValue(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func validateValue(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	err := validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	// Drop the root struct name from the namespace.
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", ns)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", ns, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], found %q", ns, fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %q validation", ns, fe.Tag())
	}
}

func unwrapEnvelope(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Data) == 0 {
		return data
	}
	return env.Data
}
