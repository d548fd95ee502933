package handler

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/notekeeper/internal/apperror"
)

// Validator checks request bodies against their `validate` struct tags.
//
// Messages use the field's `label` tag, so a struct field
//
//	FullName string `json:"fullname" validate:"required" label:"Fullname"`
//
// fails with "Fullname is required". Fields are checked in declaration
// order and only the first failure is reported.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator. It is safe for concurrent use and should
// be shared; validator caches struct metadata on first use.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Check returns nil or an apperror.ErrValidation for the first failing field.
func (val *Validator) Check(req any) error {
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(fe.StructField(), fe.Field()+" is required")
	default:
		return apperror.ValidationFailed(fe.StructField(), fe.Field()+" is invalid")
	}
}
