// Package forms holds the typed inputs accepted by the HTML forms and their
// validation. Every Validate method returns FieldErrors keyed by form field
// name; an empty map means the input is valid.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonField collects errors that do not belong to a single input.
const NonField = "__all__"

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

func (e FieldErrors) Get(field string) []string {
	return e[field]
}

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// Usernames that collide with fixed routes under /profile/.
	reservedUsernames = map[string]bool{"edit": true}

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !reservedUsernames[fl.Field().String()]
	})
	return v
}

// ValidSlug reports whether s may be used as a category slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// check runs the struct tags of in and converts the failures to messages.
func check(in any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(in)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonField, err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fe.Value().(string))))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notreserved":
		return "This username is reserved."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return "Enter a valid value."
	}
}
