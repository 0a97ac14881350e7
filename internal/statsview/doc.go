// Package statsview serves live runtime statistics while the emulator runs.
// It is compiled in only with the statsview build tag:
//
//	go build -tags statsview ./cmd/gbemu
//
// gbemu picks the listen address with -statsaddr. Charts are served under
// /debug/statsview on that address.
package statsview

import "strings"

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "localhost:12600"

// PageURL returns the chart page for a server listening on addr. A bare
// ":port" is shown as localhost.
func PageURL(addr string) string {
	if addr == "" {
		addr = DefaultAddr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/debug/statsview"
}
