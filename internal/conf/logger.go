// Package conf provides configuration management for datagen.
package conf

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the config package logger. It is fetched from the global
// logger each time since the central logger is installed after config load.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
