package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/gymdiary/internal/apperr"
)

var validate = validator.New()

// validationError turns validator output into a single user-facing
// message. Missing required fields win over format problems; otherwise
// the first failure with a known "Field.tag" message is reported.
func validationError(err error, requiredMsg string, messages map[string]string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("Invalid input")
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apperr.Validation(requiredMsg)
		}
	}
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return apperr.Validation(msg)
		}
	}
	return apperr.Validation("Invalid value for " + verrs[0].Field())
}
