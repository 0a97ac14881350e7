//go:build statsview

package statsview

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// sampleMillis is how often the charts pull new runtime samples.
const sampleMillis = 1000

// Launch serves the charts on addr, or DefaultAddr when addr is empty, and
// prints the page URL to output. Listen errors are reported on output too.
// The returned func shuts the server down.
func Launch(output io.Writer, addr string) (stop func()) {
	if addr == "" {
		addr = DefaultAddr
	}
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithInterval(sampleMillis))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(output, "statsview: %v\n", err)
		}
	}()
	fmt.Fprintf(output, "runtime stats at %s\n", PageURL(addr))
	return mgr.Stop
}

// Available reports whether Launch does anything in this build.
func Available() bool { return true }
