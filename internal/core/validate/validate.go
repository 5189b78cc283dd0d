// Package validate holds the field rules for profile and card input. Every
// check is a pure function returning structured per-field errors; nothing
// here writes to shared state, and nothing past this layer re-validates —
// input that fails is rejected before any remote call is made.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/filmstore/rental-system/internal/core/domain"
)

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors is the structured validation outcome. Empty means valid.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Valid reports whether no rule failed.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

var (
	lettersRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ ]+$`)
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	expiryRe  = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2}|[0-9]{4})$`)
)

var check = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "letters", func(fl validator.FieldLevel) bool {
		return lettersRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "cardexpiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "notexpired", func(fl validator.FieldLevel) bool {
		return notExpired(fl.Field().String(), time.Now())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: registering %q: %v", tag, err))
	}
}

// notExpired reports whether an MM/YY or MM/YYYY expiry is current. A card
// expires at the end of its named month. Malformed input passes here — the
// format rule owns that failure.
func notExpired(expiry string, now time.Time) bool {
	m := expiryRe.FindStringSubmatch(expiry)
	if m == nil {
		return true
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if year < 100 {
		year += 2000
	}
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.Before(endOfMonth)
}

type cardInput struct {
	FirstName string `validate:"required,letters"`
	LastName  string `validate:"required,letters"`
	Number    string `validate:"required,len=16,digits"`
	Expiry    string `validate:"required,cardexpiry,notexpired"`
	CVC       string `validate:"omitempty,min=3,max=4,digits"`
}

// Card validates a full card form. CVC is optional; when present it must be
// three or four digits.
func Card(c domain.Card) FieldErrors {
	return collect(check.Struct(cardInput{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Number:    c.Number,
		Expiry:    c.Expiry,
		CVC:       c.CVC,
	}))
}

type emailInput struct {
	Email string `validate:"required,email"`
}

// Email validates an email address field.
func Email(email string) FieldErrors {
	return collect(check.Struct(emailInput{Email: email}))
}

type nameInput struct {
	Name string `validate:"required,letters"`
}

// PersonName validates a first or last name: required, letters only.
func PersonName(field, name string) FieldErrors {
	errs := collect(check.Struct(nameInput{Name: name}))
	for i := range errs {
		errs[i].Field = field
	}
	return errs
}

type dniInput struct {
	DNI string `validate:"required,digits"`
}

// DNI validates a national identity number: required, digits only.
func DNI(dni string) FieldErrors {
	return collect(check.Struct(dniInput{DNI: dni}))
}

type addressInput struct {
	Address string `validate:"required"`
}

// Address validates a postal address: required, free-form.
func Address(address string) FieldErrors {
	return collect(check.Struct(addressInput{Address: address}))
}

type passwordInput struct {
	Password string `validate:"required,min=6"`
}

// Password validates a new password: required, at least six characters.
func Password(password string) FieldErrors {
	return collect(check.Struct(passwordInput{Password: password}))
}

// collect converts validator output into FieldErrors.
func collect(err error) FieldErrors {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Field: "input", Rule: "invalid", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		out = append(out, FieldError{Field: field, Rule: fe.Tag(), Message: message(field, fe)})
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "letters":
		return field + " must contain only letters"
	case "digits":
		return field + " must contain only digits"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "cardexpiry":
		return field + " must be in MM/YY or MM/YYYY format"
	case "notexpired":
		return "the card is expired"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
