package dto

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrValidation wraps every request validation failure.
var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Decimals are compared exactly, never through float conversion.
	_ = v.RegisterValidation("dgt", decimalCompare(func(d, bound decimal.Decimal) bool { return d.GreaterThan(bound) }))
	_ = v.RegisterValidation("dgte", decimalCompare(func(d, bound decimal.Decimal) bool { return d.GreaterThanOrEqual(bound) }))
	_ = v.RegisterValidation("dlt", decimalCompare(func(d, bound decimal.Decimal) bool { return d.LessThan(bound) }))
	// dscale=n rejects values with more than n significant fractional digits.
	_ = v.RegisterValidation("dscale", decimalCompare(func(d, places decimal.Decimal) bool {
		return d.Equal(d.Truncate(int32(places.IntPart())))
	}))

	return v
}

func decimalCompare(cmp func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				return false
			}
			field = field.Elem()
		}
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(d, bound)
	}
}

// Validate checks req against its struct tags.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", ErrValidation, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
