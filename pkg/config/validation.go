package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags and the cross-field rules
// tags cannot express. It does not normalize values.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if cfg.History.Enabled {
		if err := cfg.History.Validate(); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}

	return nil
}

// formatValidationErrors renders each failure as "Config.Section.Field:
// failed 'tag' (param)".
func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed '%s'", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return errors.New(strings.Join(msgs, "; "))
}
