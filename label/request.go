// Package label lays out seed packet labels for 62 mm tape.
package label

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Request is everything that goes onto a single label.
// Month and Year are nil when not given.
type Request struct {
	Name     string `flag:"name" validate:"required"`
	Variety  string `flag:"variety" validate:"required"`
	Notes    string `flag:"notes"`
	SowStart string `flag:"sow-start"`
	SowEnd   string `flag:"sow-end"`
	Month    *int   `flag:"month" validate:"month"`
	Year     *int   `flag:"year"`

	// QR is an optional payload for a QR code, such as a link to the seed.
	QR string `flag:"qr"`

	// UseRed moves the variety onto a separate red plane.
	UseRed bool `flag:"red"`
}

// ValidationError describes the first problem found with a Request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("flag")
	})
	if err := v.RegisterValidation("month", validMonth, true); err != nil {
		panic(err)
	}
	return v
}

func validMonth(fl validator.FieldLevel) bool {
	f := fl.Field()
	if !f.IsValid() {
		return true
	}
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return true
		}
		f = f.Elem()
	}
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int() >= 1 && f.Int() <= 12
	}
	return false
}

// Normalize trims surrounding whitespace from all text fields.
func (r *Request) Normalize() {
	for _, s := range []*string{&r.Name, &r.Variety, &r.Notes,
		&r.SowStart, &r.SowEnd, &r.QR} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the request, returning a *ValidationError on failure.
func (r *Request) Validate() error {
	err := validate.Struct(r)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Reason: "must not be empty"}
	case "month":
		return &ValidationError{Field: fe.Field(),
			Reason: "must be between 1 and 12"}
	default:
		return &ValidationError{Field: fe.Field(), Reason: fe.Error()}
	}
}

// SowText returns the sowing window line, or an empty string.
func (r *Request) SowText() string {
	switch {
	case r.SowStart != "" && r.SowEnd != "":
		return "Sow: " + r.SowStart + " — " + r.SowEnd
	case r.SowStart != "":
		return "Sow: " + r.SowStart
	case r.SowEnd != "":
		return "Sow End: " + r.SowEnd
	}
	return ""
}

// DateText returns the month and year in the form of "Mar-2024",
// either part alone if the other one is missing, or an empty string.
func (r *Request) DateText() string {
	var parts []string
	if r.Month != nil {
		parts = append(parts, time.Month(*r.Month).String()[:3])
	}
	if r.Year != nil {
		parts = append(parts, strconv.Itoa(*r.Year))
	}
	return strings.Join(parts, "-")
}
