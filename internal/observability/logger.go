// Package observability wires the Prometheus collectors used across datagen.
package observability

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the metrics module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
