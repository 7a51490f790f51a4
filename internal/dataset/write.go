package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/logger"
)

// outputPermissions is used for the dataset artifact.
const outputPermissions = 0o644

// Write serializes the dataset as two-space indented JSON with a trailing
// newline. The file is written next to path and renamed over it, so readers
// never observe a partial artifact.
func (d Dataset) Write(path string) error {
	if d == nil {
		d = Dataset{}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return writeError(err, path, "create_temp")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		_ = tmp.Close()
		cleanup()
		return writeError(err, path, "encode")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return writeError(err, path, "close")
	}
	if err := os.Chmod(tmpName, outputPermissions); err != nil {
		cleanup()
		return writeError(err, path, "chmod")
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return writeError(err, path, "rename")
	}

	GetLogger().Info("dataset written",
		logger.String("path", path),
		logger.Int("records", len(d)))
	return nil
}

func writeError(err error, path, op string) error {
	return errors.New(err).
		Component("dataset").
		Category(errors.CategoryFileIO).
		Context("operation", op).
		Context("path", path).
		Build()
}
