package services

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("emailish", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// messages are keyed by "<Field>.<tag>".
var messages = map[string]string{
	"Name.required":           "Name is required",
	"Name.max":                "Name must be at most 32 characters",
	"Email.required":          "Email must be between 3 to 32 characters",
	"Email.min":               "Email must be between 3 to 32 characters",
	"Email.max":               "Email must be between 3 to 32 characters",
	"Email.emailish":          "Email must contain @ symbol",
	"Password.required":       "Password is required",
	"Password.containsany":    "Password must contain at least one number",
	"NewPassword.containsany": "Password must contain at least one number",
	"Description.max":         "Description must be at most 2000 characters",
	"About.max":               "About must be at most 2000 characters",
}

// validateStruct reports the first failing field as a validation error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return invalid(msg)
	}
	return invalid(fmt.Sprintf("%s is invalid", fe.Field()))
}
