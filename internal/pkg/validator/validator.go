package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var uaPhone = regexp.MustCompile(`^\+380\d{9}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("ua_phone", func(fl validator.FieldLevel) bool {
		return uaPhone.MatchString(NormalizePhone(fl.Field().String()))
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string)
	for _, e := range errs {
		out[e.Field()] = e.Tag()
	}
	return out
}

// NormalizePhone brings the usual ways of writing a Ukrainian mobile number to +380XXXXXXXXX.
// Input that cannot be a Ukrainian number is returned with only its digits (and a leading +).
func NormalizePhone(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	d := string(digits)

	switch {
	case len(d) == 12 && d[:3] == "380":
		return "+" + d
	case len(d) == 11 && d[:2] == "80":
		return "+3" + d
	case len(d) == 10 && d[0] == '0':
		return "+38" + d
	case len(d) == 9:
		return "+380" + d
	}
	if d == "" {
		return ""
	}
	return "+" + d
}

// IsUAPhone reports whether raw normalizes to a valid Ukrainian number.
func IsUAPhone(raw string) bool {
	return uaPhone.MatchString(NormalizePhone(raw))
}

// Var validates a single value against a tag list, e.g. Var(email, "email").
func Var(field any, tag string) error {
	return validate.Var(field, tag)
}
