// Package buildinfo contains build-time metadata kept apart from user configuration.
package buildinfo

import (
	"fmt"
	"runtime"
)

// UnknownValue is reported for metadata not injected at build time.
const UnknownValue = "unknown"

// BuildInfo provides access to build-time metadata.
type BuildInfo interface {
	GetVersion() string
	GetBuildDate() string
	GetCommit() string
}

// Context holds metadata injected through -ldflags at build time.
type Context struct {
	Version   string
	BuildDate string
	Commit    string
}

// NewContext returns a Context with the given metadata.
func NewContext(version, buildDate, commit string) *Context {
	return &Context{Version: version, BuildDate: buildDate, Commit: commit}
}

func orUnknown(c *Context, field func(*Context) string) string {
	if c == nil {
		return UnknownValue
	}
	if v := field(c); v != "" {
		return v
	}
	return UnknownValue
}

// GetVersion implements BuildInfo.GetVersion
func (c *Context) GetVersion() string {
	return orUnknown(c, func(c *Context) string { return c.Version })
}

// GetBuildDate implements BuildInfo.GetBuildDate
func (c *Context) GetBuildDate() string {
	return orUnknown(c, func(c *Context) string { return c.BuildDate })
}

// GetCommit implements BuildInfo.GetCommit
func (c *Context) GetCommit() string {
	return orUnknown(c, func(c *Context) string { return c.Commit })
}

// String formats the metadata for the version command.
func (c *Context) String() string {
	return fmt.Sprintf("datagen %s (commit %s, built %s, %s %s/%s)",
		c.GetVersion(), c.GetCommit(), c.GetBuildDate(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
