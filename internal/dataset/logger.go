package dataset

import "github.com/hsrdle/datagen/internal/logger"

// GetLogger returns the dataset module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("dataset")
}
