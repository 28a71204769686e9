package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps validator namespaces to config keys.
var fieldNames = map[string]string{
	"Config.Include":    "include",
	"Config.Exclude":    "exclude",
	"Config.Jobs":       "jobs",
	"Config.Log.Level":  "log.level",
	"Config.Log.Format": "log.format",
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	result := c.ValidateDetailed()
	if result.IsValid() {
		return nil
	}
	return errors.New(strings.Join(result.Errors, "; "))
}

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, describeFieldError(fe))
		}
	}

	for _, group := range []struct {
		key      string
		patterns []string
	}{{"include", c.Include}, {"exclude", c.Exclude}} {
		for _, pattern := range group.patterns {
			if !doublestar.ValidatePattern(pattern) {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s: invalid glob pattern %q", group.key, pattern))
			}
		}
	}

	for _, pattern := range c.Include {
		if strings.Contains(pattern, "*") || hasSourceExt(pattern) {
			continue
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("include: pattern %q has neither a wildcard nor a .vue/.ts extension; did you mean %q?",
				pattern, strings.TrimSuffix(pattern, "/")+"/**/*.vue"))
	}

	if c.Jobs > runtime.NumCPU() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("jobs: %d exceeds the %d available CPUs", c.Jobs, runtime.NumCPU()))
	}

	return result
}

func describeFieldError(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	key, ok := fieldNames[ns]
	if !ok {
		key = ns
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: invalid value %q, must be one of %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Sprintf("%s: %v is out of range 1..64", key, fe.Value())
	case "required":
		return fmt.Sprintf("%s: empty pattern", key)
	}
	return fmt.Sprintf("%s: failed %q validation", key, fe.Tag())
}

func hasSourceExt(pattern string) bool {
	for _, ext := range []string{".vue", ".ts", ".tsx", ".mts", ".cts"} {
		if strings.HasSuffix(pattern, ext) {
			return true
		}
	}
	return false
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
