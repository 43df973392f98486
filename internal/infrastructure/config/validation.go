package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks configuration and scenario documents against their
// validate tags and reports failures by their file keys
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that names fields by mapstructure key
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	return &Validator{validate: v}
}

// validateDatabase requires a location for the selected store
func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.Type == "postgres" && db.URL == "" && db.Host == "" {
		sl.ReportError(db.Host, "host", "Host", "required_without_url", "")
	}
}

// Validate checks i and joins every failure into one error
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	lines := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		lines = append(lines, describe(e))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// describe renders one failure as key, rule and offending value. The
// namespace starts with the root type name, which is not a file key.
func describe(e validator.FieldError) string {
	key := e.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	rule := e.Tag()
	if e.Param() != "" {
		rule += "=" + e.Param()
	}
	return fmt.Sprintf("%s: violates %s (got %v)", key, rule, e.Value())
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
