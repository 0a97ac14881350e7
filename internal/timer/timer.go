// Package timer implements DIV, TIMA, TMA and TAC. TIMA is clocked by the
// falling edge of one bit of a free-running 16-bit counter whose high byte
// is DIV.
package timer

const (
	RegDIV  = 0xFF04
	RegTIMA = 0xFF05
	RegTMA  = 0xFF06
	RegTAC  = 0xFF07
)

// reloadDelay is the number of ticks TIMA reads 0x00 after overflowing
// before it is reloaded from TMA and the interrupt is raised.
const reloadDelay = 4

// counter bits selected by TAC & 3: 4096, 262144, 65536, 16384 Hz
var bits = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7}

type Timer struct {
	divInternal uint16
	tima        byte
	tma         byte
	tac         byte

	// ticks left until the pending TMA reload; 0 when none is pending
	reload int
}

func New() *Timer { return &Timer{} }

// Reset restores power-on values with the divider at div.
func (t *Timer) Reset(div uint16) {
	*t = Timer{divInternal: div}
}

// input is the AND of the enable bit and the selected counter bit; TIMA
// increments when it goes from 1 to 0.
func (t *Timer) input() bool {
	if t.tac&0x04 == 0 {
		return false
	}
	return t.divInternal&bits[t.tac&3] != 0
}

func (t *Timer) increment() {
	// edges are ignored while the reload is pending
	if t.reload > 0 {
		return
	}
	t.tima++
	if t.tima == 0 {
		t.reload = reloadDelay
	}
}

// Advance runs the timer for the given number of T-cycles and reports
// whether TIMA was reloaded, i.e. a Timer interrupt should be requested.
func (t *Timer) Advance(cycles int) bool {
	overflow := false
	for i := 0; i < cycles; i++ {
		if t.reload > 0 {
			t.reload--
			if t.reload == 0 {
				t.tima = t.tma
				overflow = true
			}
		}
		before := t.input()
		t.divInternal++
		if before && !t.input() {
			t.increment()
		}
	}
	return overflow
}

// DIV returns the visible divider.
func (t *Timer) DIV() byte { return byte(t.divInternal >> 8) }

func (t *Timer) Read(addr uint16) byte {
	switch addr {
	case RegDIV:
		return t.DIV()
	case RegTIMA:
		return t.tima
	case RegTMA:
		return t.tma
	case RegTAC:
		return 0xF8 | t.tac
	}
	return 0xFF
}

func (t *Timer) Write(addr uint16, v byte) {
	switch addr {
	case RegDIV:
		before := t.input()
		t.divInternal = 0
		if before && !t.input() {
			t.increment()
		}
	case RegTIMA:
		// a write during the delay cancels the reload
		t.reload = 0
		t.tima = v
	case RegTMA:
		t.tma = v
	case RegTAC:
		before := t.input()
		t.tac = v & 0x07
		if before && !t.input() {
			t.increment()
		}
	}
}
