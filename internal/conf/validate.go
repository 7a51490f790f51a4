// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	check := func(err error) {
		if err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	check(validateUpstreamSettings(&settings.Upstream))
	check(validateWikiSettings(&settings.Wiki))
	check(validateAssetSettings(&settings.Assets))

	if strings.TrimSpace(settings.Output.Path) == "" {
		ve.Errors = append(ve.Errors, "output.path must not be empty")
	}
	if settings.Pipeline.Workers < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("pipeline.workers must be at least 1, got %d", settings.Pipeline.Workers))
	}
	if settings.Telemetry.SentryDSN != "" {
		if err := validateEnvURL(settings.Telemetry.SentryDSN); err != nil {
			ve.Errors = append(ve.Errors, "telemetry.sentry_dsn: "+err.Error())
		}
	}
	if settings.Serve.Listen != "" {
		if err := validateEnvListen(settings.Serve.Listen); err != nil {
			ve.Errors = append(ve.Errors, "serve.listen: "+err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateUpstreamSettings(settings *UpstreamSettings) error {
	var errs []string

	if err := validateEnvURL(settings.BaseURL); err != nil {
		errs = append(errs, "upstream.base_url: "+err.Error())
	}
	if !localePattern.MatchString(settings.Locale) {
		errs = append(errs, fmt.Sprintf("upstream.locale must be 2-3 lowercase letters, got '%s'", settings.Locale))
	}
	if settings.Timeout <= 0 {
		errs = append(errs, "upstream.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("upstream settings errors: %v", errs)
	}
	return nil
}

func validateWikiSettings(settings *WikiSettings) error {
	var errs []string

	if err := validateEnvURL(settings.BaseURL); err != nil {
		errs = append(errs, "wiki.base_url: "+err.Error())
	}
	if settings.Timeout <= 0 {
		errs = append(errs, "wiki.timeout must be positive")
	}
	if settings.RateLimit <= 0 {
		errs = append(errs, "wiki.rate_limit must be positive")
	}
	if settings.Burst < 1 {
		errs = append(errs, "wiki.burst must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("wiki settings errors: %v", errs)
	}
	return nil
}

func validateAssetSettings(settings *AssetSettings) error {
	for key, dir := range map[string]string{
		"assets.characters_dir": settings.CharactersDir,
		"assets.paths_dir":      settings.PathsDir,
		"assets.elements_dir":   settings.ElementsDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}
