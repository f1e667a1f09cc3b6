package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Binding and validation failures. Handlers answer ErrBinding with
// BAD_REQUEST and validator failures with per-field details.
var (
	ErrValidation = errors.New("validation failed")
	ErrBinding    = errors.New("binding failed")
)

// tagVote accepts the three vote directions.
const tagVote = "vote"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field errors are reported under the
// name the client sent: the JSON key for bodies, the form key for queries.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(wireName)

		_ = validate.RegisterValidation(tagVote, validateVote)
	})

	return validate
}

// BindAndValidate binds the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return validateStruct(v)
}

// BindQueryAndValidate binds the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return validateStruct(v)
}

// ValidationErrors maps each failed field to a readable message.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	return fields
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func validateStruct(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return fld.Name
}

func validateVote(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= -1 && d <= 1
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	tagVote:    "must be -1, 0 or 1",
}

func validationMessage(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		return lengthMessage(tag, fe.Param(), fe.Kind())
	default:
		if msg, ok := validationMessages[tag]; ok {
			return strings.ReplaceAll(msg, "{param}", fe.Param())
		}

		return "failed validation: " + tag
	}
}

func lengthMessage(tag, param string, kind reflect.Kind) string {
	unit := ""
	if kind == reflect.String {
		unit = " characters"
	}

	if tag == "min" {
		return "must be at least " + param + unit
	}

	return "must be at most " + param + unit
}
