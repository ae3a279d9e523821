package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validateNotBlank)
	return &Validation{validator: v}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate runs the struct tags of i and returns nil when every field passes.
func (v *Validation) Validate(i any) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(i)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on the '%s' tag", fe.Tag()),
			})
		}
	} else if err != nil {
		errs = append(errs, ValidationError{Field: "", Message: err.Error()})
	}

	return errs
}

// ValidateNewProduct checks a creation request. A non-positive quantity is
// reported as ErrInvalidQuantity ahead of any field errors.
func (v *Validation) ValidateNewProduct(p NewProduct) error {
	if p.AvailableQuantity <= 0 {
		return ErrInvalidQuantity
	}

	errs := v.Validate(p)
	if p.Price.IsNegative() {
		errs = append(errs, ValidationError{Field: "price", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateProductUpdate checks the fields present in an update. Absent fields
// are skipped.
func (v *Validation) ValidateProductUpdate(u ProductUpdate) error {
	errs := v.Validate(u)
	if u.Price != nil && u.Price.IsNegative() {
		errs = append(errs, ValidationError{Field: "price", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
