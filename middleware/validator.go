package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct is a helper used inside handlers for payloads that gin
// binding alone cannot express.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
