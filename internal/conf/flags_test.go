package conf

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAnnotatedFlags(t *testing.T) {
	isolateViper(t)

	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	fs.String("output", DefaultOutputPath, "")
	fs.Int("workers", 1, "")
	fs.String("unbound", "", "")
	BindFlag(fs, "output", "output.path")
	BindFlag(fs, "workers", "pipeline.workers")

	require.NoError(t, fs.Parse([]string{"--output", "out/dataset.json"}))
	require.NoError(t, BindAnnotatedFlags(fs))

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "out/dataset.json", settings.Output.Path)
	assert.Equal(t, 1, settings.Pipeline.Workers, "unchanged flags keep the configured value")
}

func TestBindFlag_UnknownFlagPanics(t *testing.T) {
	fs := pflag.NewFlagSet("x", pflag.ContinueOnError)
	assert.Panics(t, func() { BindFlag(fs, "missing", "output.path") })
}
