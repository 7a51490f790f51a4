package imagecache

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the imagecache module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("imagecache")
}
