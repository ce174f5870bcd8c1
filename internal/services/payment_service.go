package services

import (
	"strings"

	"github.com/isdelr/gymdiary/internal/sanitize"
)

// PaymentInput is the membership payment form. Nothing is charged; the
// form is only validated.
type PaymentInput struct {
	CardNumber     string `validate:"required,credit_card"`
	ExpiryDate     string `validate:"required,datetime=01/06"`
	CVV            string `validate:"required,numeric,min=3,max=4"`
	CardHolderName string `validate:"required,max=100"`
}

var paymentMessages = map[string]string{
	"CardNumber.credit_card": "Card number is invalid",
	"ExpiryDate.datetime":    "Expiry date must be in MM/YY format",
	"CVV.numeric":            "CVV must be 3 or 4 digits",
	"CVV.min":                "CVV must be 3 or 4 digits",
	"CVV.max":                "CVV must be 3 or 4 digits",
	"CardHolderName.max":     "Card holder name is too long",
}

// ValidatePayment checks the payment form without processing anything.
func ValidatePayment(in PaymentInput) error {
	sanitize.Fields(&in.CardNumber, &in.ExpiryDate, &in.CVV, &in.CardHolderName)
	in.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber)

	if err := validate.Struct(in); err != nil {
		return validationError(err, "All payment fields are required", paymentMessages)
	}
	return nil
}
