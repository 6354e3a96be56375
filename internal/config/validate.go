package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	FilePath string
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that the file parses as YAML before koanf loads
// it, so syntax errors surface with the file name rather than as opaque
// unmarshal failures. A missing file is not an error.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ValidationError{FilePath: path, Message: err.Error()}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return nil
}

// Validate checks value constraints on a loaded configuration: the struct
// tags via validator, then the template placeholder rules that tags cannot
// express.
func Validate(cfg *Configuration) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				return &ValidationError{
					Field:   toSnakeCase(fieldErr.Field()),
					Message: formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	if cfg.CommitMessage != "" && !strings.Contains(cfg.CommitMessage, "{new}") {
		return &ValidationError{
			Field:   "commit_message",
			Message: "template must contain a {new} placeholder",
		}
	}

	return nil
}

// formatValidationError formats a validator failure for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

// toSnakeCase converts a CamelCase field name to its snake_case config key.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
