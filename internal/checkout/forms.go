package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
)

// AddressForm is the delivery address submitted between the cart and
// payment steps.
type AddressForm struct {
	FullName   string  `json:"full_name" validate:"required,min=3,max=120"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
	Street     string  `json:"street" validate:"required,max=160"`
	Number     *string `json:"number,omitempty" validate:"omitempty,max=16"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=80"`
	District   *string `json:"district,omitempty" validate:"omitempty,max=80"`
	City       string  `json:"city" validate:"required,max=80"`
	State      string  `json:"state" validate:"required,min=2,max=2"`
	PostalCode string  `json:"postal_code" validate:"required,min=8,max=9"`
}

// PaymentForm is the card data submitted on the payment step. It is
// validated, acknowledged by the simulated processor and dropped; only
// the card suffix survives into the confirmation.
type PaymentForm struct {
	CardholderName string `json:"cardholder_name" validate:"required,min=3,max=120"`
	CardNumber     string `json:"card_number" validate:"required,min=13,max=19,numeric"`
	Expiry         string `json:"expiry" validate:"required,card_expiry"`
	CVC            string `json:"cvc" validate:"required,min=3,max=4,numeric"`
}

// cardSuffix returns the last four digits of the card number for
// display on the confirmation view.
func (f PaymentForm) cardSuffix() string {
	digits := strings.TrimSpace(f.CardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateForm runs struct validation and converts failures into a
// field-to-message map carried on the error details.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "numeric":
		return "must contain only digits"
	case "card_expiry":
		return "must be in MM/YY format"
	}
	return "is invalid"
}
