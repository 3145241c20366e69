package order

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
)

// ErrInvalidCheckout wraps every checkout field violation.
var ErrInvalidCheckout = errors.New("invalid checkout request")

var (
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// Validate checks the payment form. The first violation is reported.
func Validate(req commerce.CheckoutRequest) error {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return invalid("name is required")
	case utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100:
		return invalid("name must be between 2 and 100 characters")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return invalid("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return invalid("email should be valid")
	}

	if !cardPattern.MatchString(req.CreditCardNumber) {
		return invalid("credit card number must be 16 digits")
	}
	if !expiryPattern.MatchString(req.ExpiryDate) {
		return invalid("expiry date must be in MM/YY format")
	}
	if !cvvPattern.MatchString(req.CVV) {
		return invalid("cvv must be 3 or 4 digits")
	}
	if strings.TrimSpace(req.BillingAddress) == "" {
		return invalid("billing address is required")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCheckout, msg)
}
