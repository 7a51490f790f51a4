// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults shared with other packages.
const (
	DefaultBaseURL     = "https://raw.githubusercontent.com/Mar-7th/StarRailRes/master"
	DefaultLocale      = "en"
	DefaultWikiBaseURL = "https://honkai-star-rail.fandom.com/wiki"
	DefaultOutputPath  = "data.json"
	DefaultWikiTimeout = 10 * time.Second
	DefaultListen      = "127.0.0.1:8080"
)

// setDefaultConfig registers default values for every configuration key.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("upstream.base_url", DefaultBaseURL)
	viper.SetDefault("upstream.locale", DefaultLocale)
	viper.SetDefault("upstream.timeout", 30*time.Second)

	viper.SetDefault("wiki.base_url", DefaultWikiBaseURL)
	viper.SetDefault("wiki.timeout", DefaultWikiTimeout)
	viper.SetDefault("wiki.rate_limit", 2.0)
	viper.SetDefault("wiki.burst", 1)

	viper.SetDefault("assets.characters_dir", "assets/characters")
	viper.SetDefault("assets.paths_dir", "assets/paths")
	viper.SetDefault("assets.elements_dir", "assets/elements")

	viper.SetDefault("output.path", DefaultOutputPath)

	viper.SetDefault("pipeline.workers", 1)

	viper.SetDefault("http.user_agent", "datagen")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/datagen.log")
	viper.SetDefault("logging.file_output.level", "debug")

	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("telemetry.sentry_dsn", "")

	viper.SetDefault("serve.listen", DefaultListen)
}
