package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// Validate checks a configuration document and its cross-field rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return inapperrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if cfg.Display.Typefaces.Bold != "" && cfg.Display.Typefaces.Regular == "" {
		return inapperrors.NewValidationError("display.typefaces.regular", "required when a bold typeface is set", nil)
	}
	if cfg.Host.AttributionID != "" && !cfg.Host.AttributionAllowed {
		return inapperrors.NewValidationError("host.attribution_id", "set while attribution is not allowed", nil)
	}

	return nil
}

// convertValidationError normalizes validator errors into validation errors keyed by YAML path.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return inapperrors.NewValidationError(field, msg, err)
	}

	return inapperrors.NewValidationError("config", err.Error(), err)
}

// yamlPath drops the root struct name from the namespace, leaving the YAML keys.
func yamlPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}
