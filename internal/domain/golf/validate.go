package golf

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewMatch is the input to match creation.
type NewMatch struct {
	Name     string `json:"name" validate:"required,max=200"`
	NumHoles int    `json:"num_holes" validate:"gte=1"`
}

// NewEnrollment is the input to player enrollment.
type NewEnrollment struct {
	Name string `json:"name" validate:"required,max=120"`
}

// NewScore is the input to score recording. Hole bounds depend on the match and
// are checked by the scoring service.
type NewScore struct {
	PlayerID   int64 `json:"player_id"`
	HoleNumber int   `json:"hole_number"`
	Strokes    int   `json:"strokes" validate:"gte=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a command struct and converts the first failure into a ValidationError.
func Validate(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %T: %w", cmd, err)
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
