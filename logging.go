package reko

import "github.com/reko3d/reko/render/core"

// Logger is re-exported from render/core so applications and the render
// internals share one logging seam.
type Logger = core.Logger

func NewDefaultLogger(prefix string, debug bool) Logger {
	return core.NewDefaultLogger(prefix, debug)
}

func NewNopLogger() Logger {
	return core.NewNopLogger()
}
