package feed

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the feed module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("feed")
}
