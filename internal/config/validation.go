// validation.go - startup validation so misconfiguration fails fast with every
// problem listed at once.
package config

import (
	"fmt"
	"strings"
)

// ValidationError names one misconfigured variable.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validator collects validation errors.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{errors: make([]ValidationError, 0)}
}

func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Err folds all collected errors into one, or returns nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return fmt.Errorf("%s", sb.String())
}

func (v *Validator) ValidatePort(key string, port int) {
	if port < 1 || port > 65535 {
		v.AddError(key, "port must be between 1 and 65535")
	}
}

func (v *Validator) ValidateRequired(key, value string) {
	if value == "" {
		v.AddError(key, "must not be empty")
	}
}

func (v *Validator) ValidatePositive(key string, n int) {
	if n <= 0 {
		v.AddError(key, "must be a positive integer")
	}
}

func (v *Validator) ValidateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}
	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	v := NewValidator()

	v.ValidatePort("PORT", c.Server.Port)
	v.ValidatePort("DB_PORT", c.Database.Port)
	v.ValidateRequired("DB_HOST", c.Database.Host)
	v.ValidateRequired("DB_NAME", c.Database.Name)
	v.ValidateRequired("DB_USER", c.Database.User)
	v.ValidateEnum("DB_SSLMODE", c.Database.SSLMode, []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"})
	v.ValidatePositive("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	v.ValidatePositive("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)

	v.ValidatePositive("SCHEMA_INIT_ATTEMPTS", c.Schema.Attempts)
	if c.Schema.Backoff < 0 {
		v.AddError("SCHEMA_INIT_BACKOFF", "must not be negative")
	}

	if c.RateLimit.RPS <= 0 {
		v.AddError("RATE_LIMIT_RPS", "must be positive")
	}
	v.ValidatePositive("RATE_LIMIT_BURST", c.RateLimit.Burst)
	v.ValidatePositive("UPLOAD_RATE_PER_MIN", c.RateLimit.UploadPerMin)

	v.ValidateEnum("LOG_LEVEL", c.Log.Level, []string{"debug", "info", "warn", "error"})
	v.ValidateEnum("LOG_FORMAT", c.Log.Format, []string{"text", "json"})
	v.ValidateEnum("APP_ENV", c.AppEnv, []string{"development", "staging", "production", "test"})

	return v.Err()
}
