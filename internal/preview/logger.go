package preview

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the preview module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("preview")
}
