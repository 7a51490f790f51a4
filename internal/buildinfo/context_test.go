package buildinfo

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_GetVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{"nil context", nil, UnknownValue},
		{"empty version", NewContext("", "2026-01-01", "abc123"), UnknownValue},
		{"valid version", NewContext("1.0.0", "2026-01-01", "abc123"), "1.0.0"},
		{"pre-release tag", NewContext("1.0.0-beta.1", "2026-01-01", "abc123"), "1.0.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.GetVersion())
		})
	}
}

func TestContext_OtherFields(t *testing.T) {
	t.Parallel()

	var nilCtx *Context
	assert.Equal(t, UnknownValue, nilCtx.GetBuildDate())
	assert.Equal(t, UnknownValue, nilCtx.GetCommit())

	ctx := NewContext("1.2.3", "2026-10-19", "")
	assert.Equal(t, "2026-10-19", ctx.GetBuildDate())
	assert.Equal(t, UnknownValue, ctx.GetCommit())
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	s := NewContext("1.2.3", "2026-10-19", "deadbeef").String()
	assert.True(t, strings.HasPrefix(s, "datagen 1.2.3 (commit deadbeef, built 2026-10-19, "))
	assert.Contains(t, s, runtime.Version())

	var _ BuildInfo = (*Context)(nil)
}
