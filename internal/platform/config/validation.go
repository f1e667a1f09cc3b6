package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the service should not start with invalid config.
func (c *Config) Validate() error {
	var msgs []string

	if err := validate.Struct(c); err != nil {
		msgs = append(msgs, fieldErrors(err, "")...)
	}

	if c.Auth.Mode == AuthModeOIDC {
		if err := validate.Struct(&c.Auth.OIDC); err != nil {
			msgs = append(msgs, fieldErrors(err, "auth.oidc.")...)
		}
	}

	if len(msgs) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// fieldErrors converts validator errors to readable lines.
func fieldErrors(err error, prefix string) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, formatFieldError(e, prefix))
	}

	return out
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError, prefix string) string {
	field := prefix + formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return field + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.Server.Port" to "server.port".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
