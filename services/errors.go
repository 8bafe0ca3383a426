package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds returned by the services. Handlers map them to status codes
// with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// Error is a client-facing failure: Msg is safe to return in a response body.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

// newValidator reports fields by their form names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of v and turns the first failure into
// an ErrBadRequest.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newError(ErrBadRequest, "Invalid input")
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return newError(ErrBadRequest, "Missing field: %s", field)
	case "email":
		return newError(ErrBadRequest, "Invalid email address")
	case "max":
		return newError(ErrBadRequest, "Field %s must be at most %s characters", field, fe.Param())
	default:
		return newError(ErrBadRequest, "Invalid field: %s", field)
	}
}
