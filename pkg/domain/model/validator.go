package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
)

// Validation errors
var (
	ErrIncompleteInput = goerr.New("required input is missing")
	ErrInvalidInput    = goerr.New("invalid input")
)

// Context keys for error values
const (
	MissingFieldsKey = "missing_fields"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return goerr.Wrap(ErrInvalidInput, err.Error())
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			return goerr.Wrap(ErrInvalidInput, "field validation failed",
				goerr.V("field", fe.Field()),
				goerr.V("rule", fe.Tag()))
		}
		missing = append(missing, fe.Field())
	}

	return goerr.Wrap(ErrIncompleteInput, "required fields are missing",
		goerr.V(MissingFieldsKey, missing))
}

// MissingFields returns the JSON names of required fields reported by a validation error
func MissingFields(err error) []string {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return nil
	}
	fields, _ := ge.Values()[MissingFieldsKey].([]string)
	return fields
}
