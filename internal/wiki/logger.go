package wiki

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the wiki module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("wiki")
}
