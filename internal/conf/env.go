// env.go - environment variable bindings and validation
package conf

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for one environment variable binding
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns the explicitly named environment variables.
// Every other key is still reachable as DATAGEN_<SECTION>_<KEY> through AutomaticEnv.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "DATAGEN_DEBUG", validateEnvBool},

		{"upstream.locale", "DATAGEN_LOCALE", validateEnvLocale},
		{"upstream.base_url", "DATAGEN_BASE_URL", validateEnvURL},
		{"upstream.timeout", "DATAGEN_TIMEOUT", validateEnvDuration},

		{"wiki.base_url", "DATAGEN_WIKI_BASE_URL", validateEnvURL},
		{"wiki.timeout", "DATAGEN_WIKI_TIMEOUT", validateEnvDuration},
		{"wiki.rate_limit", "DATAGEN_WIKI_RATE_LIMIT", validateEnvPositiveFloat},

		{"output.path", "DATAGEN_OUTPUT", validateEnvNonEmpty},
		{"pipeline.workers", "DATAGEN_WORKERS", validateEnvWorkers},

		{"metrics.textfile", "DATAGEN_METRICS_TEXTFILE", nil},
		{"telemetry.sentry_dsn", "DATAGEN_SENTRY_DSN", validateEnvURL},
		{"serve.listen", "DATAGEN_LISTEN", validateEnvListen},
	}
}

// bindEnvVars binds environment variables and validates any that are set
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue, ok := os.LookupEnv(binding.EnvVar); ok && envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

// localePattern matches the StarRailRes language directories: en, jp, cht, ...
var localePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

func validateEnvLocale(value string) error {
	if !localePattern.MatchString(value) {
		return fmt.Errorf("locale must be 2-3 lowercase letters (e.g. 'en', 'cht'), got: '%s'", value)
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return nil
}

func validateEnvPositiveFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}
	if f <= 0 {
		return fmt.Errorf("must be positive, got %g", f)
	}
	return nil
}

func validateEnvWorkers(value string) error {
	workers, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid workers: %w", err)
	}
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	return nil
}

func validateEnvNonEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value must not be blank")
	}
	return nil
}

func validateEnvListen(value string) error {
	if _, _, err := net.SplitHostPort(value); err != nil {
		return fmt.Errorf("listen address must be host:port: %w", err)
	}
	return nil
}
