package middleware

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/medreminder-api/internal/model"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidators installs the dui rule and JSON field naming on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		if err := v.RegisterValidation("dui", func(fl validator.FieldLevel) bool {
			return model.ValidDUI(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	})
}

// FieldErrors converts validator failures into field errors keyed by JSON path.
func FieldErrors(errs validator.ValidationErrors) []apperrors.FieldError {
	fields := make([]apperrors.FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(e),
			Message: fieldMessage(e),
		})
	}
	return fields
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "dui":
		return "must match 00000000-0"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be %s or greater", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
