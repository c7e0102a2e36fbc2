package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Fields returns the offending field names
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Field)
	}
	return fields
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a loaded configuration for values no run could work with.
func Validate(cfg CSuiteConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Launch.Timeout < 0 {
		errs.Add("launch.timeout", "must not be negative", cfg.Launch.Timeout)
	}
	for _, arg := range cfg.Launch.HarnessCommand {
		switch arg {
		case "--serial", "-m", "--gcs-apk-dir":
			errs.Add("launch.harnessCommand", fmt.Sprintf("must not contain %s, it is set per run", arg), arg)
		}
	}
	if cfg.Runs.Keep < 0 {
		errs.Add("runs.keep", "must not be negative", cfg.Runs.Keep)
	}
	if strings.ContainsAny(cfg.Module.Prefix, `/\ `) {
		errs.Add("module.prefix", "must not contain path separators or spaces", cfg.Module.Prefix)
	}
	for i, p := range cfg.Module.Preparers {
		if strings.TrimSpace(p.Class) == "" {
			errs.Add(fmt.Sprintf("module.preparers[%d].class", i), "is required")
		}
		for j, o := range p.Options {
			if strings.TrimSpace(o.Name) == "" {
				errs.Add(fmt.Sprintf("module.preparers[%d].options[%d].name", i, j), "is required")
			}
		}
	}
	if cfg.Logging.Level != "" {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug", "info", "warn", "warning", "error":
		default:
			errs.Add("logging.level", "must be one of debug, info, warn, error", cfg.Logging.Level)
		}
	}
	return errs
}
