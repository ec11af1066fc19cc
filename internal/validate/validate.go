// Package validate wraps go-playground/validator with readable messages and
// decodes URL-query style option strings with gorilla/schema.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var validate = validator.New()

// Struct validates v's `validate` tags and returns an error listing every
// failing field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldName(ve)+": "+message(ve))
	}
	return errors.New(strings.Join(messages, "; "))
}

// Options decodes a query string ("a=1&b=true") into dst, a pointer to a
// struct with `schema` tags, then validates it. Fields absent from the query
// keep their current values, so callers set defaults before decoding.
// Unknown keys are an error.
func Options(query string, dst any) error {
	values, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("invalid options %q: %w", query, err)
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(false)
	if err := dec.Decode(dst, values); err != nil {
		return fmt.Errorf("invalid options %q: %w", query, err)
	}
	if err := Struct(dst); err != nil {
		return fmt.Errorf("invalid options %q: %w", query, err)
	}
	return nil
}

func fieldName(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

// message converts a validator.FieldError to a human-readable message.
func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "dive":
		return "invalid element"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
