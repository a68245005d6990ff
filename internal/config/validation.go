package config

import (
	"fmt"
	"strings"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateConfig validates the resolved configuration. The database engine
// is checked by the prober lookup.
func ValidateConfig(config *Config) ValidationErrors {
	var errors ValidationErrors

	if config.Mode != ModeDevelopment && config.Mode != ModeProduction {
		errors = append(errors, ValidationError{
			Field:   "DJANGO_ENV",
			Message: fmt.Sprintf("unknown mode %q (use development or production)", config.Mode),
		})
	}

	if config.Database.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "POSTGRES_HOST",
			Message: "database host is required",
		})
	}

	if !isValidPort(config.Database.Port) {
		errors = append(errors, ValidationError{
			Field:   "POSTGRES_PORT",
			Message: "port must be between 1 and 65535",
		})
	}

	if !isValidPort(config.App.Port) {
		errors = append(errors, ValidationError{
			Field:   "APP_PORT",
			Message: "port must be between 1 and 65535",
		})
	}

	if config.Gunicorn.Workers < 1 {
		errors = append(errors, ValidationError{
			Field:   "GUNICORN_WORKERS",
			Message: "workers must be a positive number",
		})
	}

	if config.Gunicorn.Timeout < 1 {
		errors = append(errors, ValidationError{
			Field:   "GUNICORN_TIMEOUT",
			Message: "timeout must be a positive number of seconds",
		})
	}

	if config.Wait.MaxAttempts < 1 {
		errors = append(errors, ValidationError{
			Field:   "WAIT_MAX_ATTEMPTS",
			Message: "max attempts must be at least 1",
		})
	}

	if config.Wait.Interval < 0 {
		errors = append(errors, ValidationError{
			Field:   "WAIT_INTERVAL",
			Message: "interval cannot be negative",
		})
	}

	if config.Wait.ProbeTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "WAIT_PROBE_TIMEOUT",
			Message: "probe timeout must be positive",
		})
	}

	if config.App.Python == "" || config.App.ManagePy == "" {
		errors = append(errors, ValidationError{
			Field:   "PYTHON",
			Message: "python interpreter and manage.py path are required",
		})
	}

	if err := security.ValidateHealthPath(config.App.HealthcheckPath); err != nil {
		errors = append(errors, ValidationError{
			Field:   "HEALTHCHECK_PATH",
			Message: err.Error(),
		})
	}

	return errors
}

func isValidPort(port int) bool {
	return port >= constants.MinPort && port <= constants.MaxPort
}
