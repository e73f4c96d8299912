// Package validate checks user supplied book data before it reaches the store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/readlog/internal/library"
	"github.com/verte-zerg/readlog/internal/model"
)

var (
	validate *validator.Validate

	// today is replaced in tests.
	today = func() time.Time { return time.Now() }
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	_ = validate.RegisterValidation("pastdate", validatePastDate)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// validatePastDate accepts YYYY-MM-DD dates that are not after today.
func validatePastDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(model.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	y, m, day := today().Date()
	limit := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return !d.After(limit)
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of field errors for one payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "invalid book: " + strings.Join(parts, "; ")
}

// Fields maps field names to messages.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// Book validates a normalized book payload. It returns Errors when a field is rejected.
func Book(in model.BookInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate book: %w", err)
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Pagination checks explicit page parameters. Zero means "use the default".
func Pagination(page, size int) error {
	var out Errors
	if err := validate.Var(page, fmt.Sprintf("min=0,max=%d", library.MaxPage)); err != nil {
		out = append(out, FieldError{Field: "page", Message: fmt.Sprintf("must be between 1 and %d", library.MaxPage)})
	}
	if err := validate.Var(size, fmt.Sprintf("min=0,max=%d", library.MaxPageSize)); err != nil {
		out = append(out, FieldError{Field: "size", Message: fmt.Sprintf("must be between 1 and %d", library.MaxPageSize)})
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "pastdate":
		return "must be a valid date (YYYY-MM-DD) that is not in the future"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
