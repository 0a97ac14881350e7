//go:build !statsview

package statsview

import "io"

// Launch is a no-op without the statsview build tag.
func Launch(output io.Writer, addr string) (stop func()) { return func() {} }

// Available reports whether Launch does anything in this build.
func Available() bool { return false }
