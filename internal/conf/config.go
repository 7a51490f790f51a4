// config.go: settings struct for datagen and functions to load it.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/hsrdle/datagen/internal/logger"
)

// UpstreamSettings describes the StarRailRes metadata and image origin.
type UpstreamSettings struct {
	BaseURL string        `mapstructure:"base_url"` // raw content root, icons are resolved against it
	Locale  string        `mapstructure:"locale"`   // feed language directory under index_new/
	Timeout time.Duration `mapstructure:"timeout"`  // per-request timeout for feeds and icons
}

// WikiSettings controls the character wiki scraper.
type WikiSettings struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`    // per-page timeout
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second
	Burst     int           `mapstructure:"burst"`
}

// AssetSettings holds the local icon cache directories.
type AssetSettings struct {
	CharactersDir string `mapstructure:"characters_dir"`
	PathsDir      string `mapstructure:"paths_dir"`
	ElementsDir   string `mapstructure:"elements_dir"`
}

// OutputSettings holds the dataset artifact location.
type OutputSettings struct {
	Path string `mapstructure:"path"`
}

// PipelineSettings tunes the aggregation pipeline.
type PipelineSettings struct {
	Workers int `mapstructure:"workers"` // 1 processes entries strictly sequentially
}

// HTTPSettings applies to the shared HTTP client.
type HTTPSettings struct {
	UserAgent string `mapstructure:"user_agent"`
}

// MetricsSettings configures the Prometheus textfile export.
type MetricsSettings struct {
	Textfile string `mapstructure:"textfile"` // empty disables export
}

// TelemetrySettings configures error reporting.
type TelemetrySettings struct {
	SentryDSN string `mapstructure:"sentry_dsn"` // empty disables Sentry
}

// ServeSettings configures the dataset preview server.
type ServeSettings struct {
	Listen string `mapstructure:"listen"`
}

// Settings is the complete datagen configuration.
type Settings struct {
	Debug     bool                 `mapstructure:"debug"`
	Upstream  UpstreamSettings     `mapstructure:"upstream"`
	Wiki      WikiSettings         `mapstructure:"wiki"`
	Assets    AssetSettings        `mapstructure:"assets"`
	Output    OutputSettings       `mapstructure:"output"`
	Pipeline  PipelineSettings     `mapstructure:"pipeline"`
	HTTP      HTTPSettings         `mapstructure:"http"`
	Logging   logger.LoggingConfig `mapstructure:"logging"`
	Metrics   MetricsSettings      `mapstructure:"metrics"`
	Telemetry TelemetrySettings    `mapstructure:"telemetry"`
	Serve     ServeSettings        `mapstructure:"serve"`
}

// FeedURL returns the URL of one index_new feed, e.g. "characters".
func (s *Settings) FeedURL(feed string) string {
	return fmt.Sprintf("%s/index_new/%s/%s.json", strings.TrimRight(s.Upstream.BaseURL, "/"), s.Upstream.Locale, feed)
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads defaults, the optional config file and environment variables
// into a validated Settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper registers defaults and env bindings, then reads the config file.
// A missing config file is not an error.
func initViper() error {
	setDefaultConfig()

	viper.SetEnvPrefix("DATAGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindEnvVars(); err != nil {
		return err
	}

	if explicit := viper.GetString("config"); explicit != "" {
		viper.SetConfigFile(explicit)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", explicit, err)
		}
		GetLogger().Debug("config file loaded", logger.String("path", explicit))
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, path := range GetDefaultConfigPaths() {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			GetLogger().Debug("no config file found, using defaults")
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	GetLogger().Debug("config file loaded", logger.String("path", viper.ConfigFileUsed()))
	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "datagen"))
	}
	return paths
}

// GetSettings returns the settings produced by the last successful Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
